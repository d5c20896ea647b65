package usecase

import (
	"context"
	"time"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

// AggregateStreamUseCase turns the upstream cursor-paginated, filter-agnostic
// API into a single client-facing page satisfying a minimum item count, a
// time budget and the content filters. Pages are fetched strictly
// sequentially: each request's cursor depends on the previous response.
type AggregateStreamUseCase struct {
	fetcher port.GalleryFetcherPort
}

func NewAggregateStreamUseCase(fetcher port.GalleryFetcherPort) *AggregateStreamUseCase {
	return &AggregateStreamUseCase{fetcher: fetcher}
}

func (uc *AggregateStreamUseCase) Execute(ctx context.Context, params domain.FetchParams,
	opts domain.FilterOptions, startCursor string, minBatch int, timeBudget time.Duration) (domain.AggregationResult, error) {

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "AggregateStream",
		"min_batch": minBatch,
	})
	logger.Info("Use case started", port.Fields{
		"start_cursor":   startCursor,
		"time_budget_ms": timeBudget.Milliseconds(),
		"videos_only":    opts.VideosOnly,
	})

	started := time.Now()
	var deadline time.Time
	if timeBudget > 0 {
		deadline = started.Add(timeBudget)
	}

	kept := make([]domain.Item, 0)
	dropped := 0
	cursor := startCursor
	nextCursor := ""
	var notes []string

	for i := 0; i < domain.MaxAggregationPages; i++ {
		if err := ctx.Err(); err != nil {
			return domain.AggregationResult{}, err
		}

		page, err := uc.fetcher.FetchPage(ctx, params, cursor)
		if err != nil {
			logger.Error("Fetch aborted", err, port.Fields{"iteration": i})
			return domain.AggregationResult{}, err
		}

		nextCursor = page.NextCursor
		if page.Note != "" {
			notes = append(notes, page.Note)
			logger.Warn("Upstream page degraded", port.Fields{"note": page.Note, "iteration": i})
		}

		dropped += page.Malformed
		for _, it := range page.Items {
			if opts.Accept(it) {
				kept = append(kept, it)
			} else {
				dropped++
			}
		}

		if len(kept) >= minBatch {
			break
		}
		// The deadline only fires once some progress was made, so a slow
		// upstream never produces an empty successful page needlessly.
		if !deadline.IsZero() && !time.Now().Before(deadline) && len(kept) > 0 {
			break
		}
		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	served := kept
	if minBatch > 0 && len(kept) > minBatch {
		served = kept[:minBatch]
	}

	result := domain.AggregationResult{
		Items:      served,
		NextCursor: nextCursor,
		Served:     len(served),
		Dropped:    dropped,
		Elapsed:    time.Since(started),
		HasMore:    nextCursor != "",
		Notes:      notes,
	}
	logger.Info("Use case finished successfully", port.Fields{
		"served":     result.Served,
		"dropped":    result.Dropped,
		"has_more":   result.HasMore,
		"elapsed_ms": result.Elapsed.Milliseconds(),
	})
	return result, nil
}
