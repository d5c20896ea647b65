package usecases_port

import (
	"context"
	"time"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
)

// AggregateStreamUseCasePort drives repeated upstream fetches until minBatch
// accepted items are collected, the time budget elapses with at least one
// item kept, the upstream signals end-of-pages, or the iteration ceiling is
// hit. A timeBudget of zero disables the deadline.
type AggregateStreamUseCasePort interface {
	Execute(ctx context.Context, params domain.FetchParams, opts domain.FilterOptions,
		startCursor string, minBatch int, timeBudget time.Duration) (domain.AggregationResult, error)
}
