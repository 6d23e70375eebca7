package engine

import (
	"context"
	"log/slog"
	"time"
)

// Run persists the write buffer every persist interval until the context is
// done. Records still buffered at that point are persisted before returning.
func (e *Engine) Run(ctx context.Context) {
	if e.config.PersistInterval > 0 {
		ticker := time.NewTicker(e.config.PersistInterval)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				if err := e.Persist(ctx); err != nil {
					slog.Error("Error persisting records", "error", err)
				}
			}
		}
	} else {
		<-ctx.Done()
	}

	if err := e.Persist(context.WithoutCancel(ctx)); err != nil {
		slog.Error("Error persisting records on shutdown", "error", err)
	}
}
