package store

import (
	"context"
	"time"

	"gitea.jw6.us/james/countboard/internal/metrics"
)

func observeKV(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveKVLatency(ctx, operation, start)
	}
}
