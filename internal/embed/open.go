package embed

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// Options selects and configures the embedding stack.
type Options struct {
	Provider   string
	Dimensions int
	CacheSize  int
	Google     GoogleConfig
}

// Open builds the configured provider wrapped with latency tracking and a
// cache. The returned close function releases provider resources.
func Open(ctx context.Context, opts Options, stats *Stats, log *slog.Logger) (Embedder, func() error, error) {
	var (
		base    Embedder
		closeFn = func() error { return nil }
	)
	switch opts.Provider {
	case "", ProviderLocal:
		base = NewLocal(opts.Dimensions)
	case ProviderGoogle:
		g, err := NewGoogle(ctx, opts.Google, log)
		if err != nil {
			return nil, nil, err
		}
		base, closeFn = g, g.Close
	default:
		return nil, nil, fmt.Errorf("unknown embeddings provider %q", opts.Provider)
	}

	if stats != nil {
		base = NewTimed(base, stats)
	}
	log.Info("embeddings ready", "provider", opts.Provider, "dimensions", opts.Dimensions)
	return NewCached(base, opts.CacheSize), closeFn, nil
}
