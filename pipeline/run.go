package pipeline

import (
	"context"
	"log/slog"

	"github.com/fultonring/fahe"
)

// Run executes filter -> finalize -> aggregate with the configured
// directories and returns the aggregated frame.
func Run(ctx context.Context, cfg *Config, lg *slog.Logger) (*fahe.Frame, error) {
	if _, e := Filter(ctx, cfg, lg); e != nil {
		return nil, e
	}

	if _, e := Finalize(ctx, cfg, lg); e != nil {
		return nil, e
	}

	return Aggregate(cfg, lg)
}
