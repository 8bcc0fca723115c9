package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
)

const maxCleanupInterval = 5 * time.Minute

// Orchestrator runs analysis jobs on a fixed worker pool.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	analyzer Analyzer
	log      *slog.Logger
	cfg      config.Config

	busy     atomic.Int32
	stopOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// PoolStats describes the worker pool at one instant.
type PoolStats struct {
	Workers    int `json:"workers"`
	Busy       int `json:"busy"`
	QueueDepth int `json:"queue_depth"`
	QueueSize  int `json:"queue_size"`
	Tracked    int `json:"tracked_jobs"`
}

func NewOrchestrator(cfg config.Config, analyzer Analyzer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		analyzer: analyzer,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches the workers and the expiry sweeper.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.analyzer, o.log.With("worker", i))
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.busy.Add(1)
					w.Process(workerCtx, job)
					o.busy.Add(-1)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval(o.cfg.JobTTL))
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Info("expired jobs removed", "count", n, "remaining", o.jobs.Len())
				}
			}
		}
	}()

	o.log.Info("analysis workers started", "workers", o.cfg.WorkerCount, "queue_size", o.cfg.MaxQueueSize)
}

// Stop cancels in-flight work and waits for the workers. Safe to call twice.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.wg.Wait()
	})
}

// Submit queues a job. A full queue fails the job and releases its files.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("analysis job queued", "job_id", job.ID, "queue_depth", len(o.queue))
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		job.Release()
		o.log.Warn("analysis queue full", "job_id", job.ID, "queue_size", o.cfg.MaxQueueSize)
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) Stats() PoolStats {
	return PoolStats{
		Workers:    o.cfg.WorkerCount,
		Busy:       int(o.busy.Load()),
		QueueDepth: len(o.queue),
		QueueSize:  cap(o.queue),
		Tracked:    o.jobs.Len(),
	}
}

// cleanupInterval sweeps at half the TTL, capped at five minutes.
func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return maxCleanupInterval
	}
	return max(min(ttl/2, maxCleanupInterval), time.Second)
}
