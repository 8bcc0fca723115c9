package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GoogleConfig configures the hosted embedding provider.
type GoogleConfig struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// Google embeds text through the Gemini embedding API, guarded by a rate
// limiter and a circuit breaker.
type Google struct {
	client  *genai.Client
	model   *genai.EmbeddingModel
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	backoff func(int) time.Duration
}

func NewGoogle(ctx context.Context, cfg GoogleConfig, log *slog.Logger) (*Google, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google embeddings: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 1500
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "embeddings",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	burst := max(cfg.RequestsPerMinute/10, 1)
	return &Google{
		client:  client,
		model:   client.EmbeddingModel(cfg.Model),
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)*0.9/60.0), burst),
		breaker: breaker,
		backoff: Backoff,
	}, nil
}

func (g *Google) Embed(ctx context.Context, text string) ([]float32, error) {
	var values []float32
	err := withRetry(ctx, g.backoff, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		res, err := g.breaker.Execute(func() (interface{}, error) {
			resp, err := g.model.EmbedContent(ctx, genai.Text(text))
			if err != nil {
				return nil, classify(err)
			}
			if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
				return nil, errors.New("empty embedding response")
			}
			return resp.Embedding.Values, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return fmt.Errorf("embeddings unavailable: %w", err)
			}
			return err
		}
		values = res.([]float32)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Close releases resources.
func (g *Google) Close() error {
	return g.client.Close()
}
