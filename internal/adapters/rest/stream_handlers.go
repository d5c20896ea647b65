package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port/usecases_port"
)

// Resolved defaults for the upstream query.
const (
	defaultNsfw   = "None"
	defaultSort   = "Most Reactions"
	defaultPeriod = "Day"
)

// StreamHandler serves the aggregator entry point.
type StreamHandler struct {
	aggregateUC usecases_port.AggregateStreamUseCasePort
}

func NewStreamHandler(aggregateUC usecases_port.AggregateStreamUseCasePort) *StreamHandler {
	return &StreamHandler{aggregateUC: aggregateUC}
}

func queryOrDefault(r *http.Request, key, def string) string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	return v
}

// StreamImages handles GET /stream.
func (h *StreamHandler) StreamImages(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "StreamImages"})
	q := r.URL.Query()

	params := domain.FetchParams{
		Nsfw:                 queryOrDefault(r, "nsfw", defaultNsfw),
		Sort:                 queryOrDefault(r, "sort", defaultSort),
		Period:               queryOrDefault(r, "period", defaultPeriod),
		Username:             strings.TrimSpace(q.Get("username")),
		Tags:                 strings.TrimSpace(q.Get("tags")),
		Query:                strings.TrimSpace(q.Get("query")),
		BaseModels:           strings.TrimSpace(q.Get("baseModels")),
		ModelID:              strings.TrimSpace(q.Get("modelId")),
		ModelVersionID:       strings.TrimSpace(q.Get("modelVersionId")),
		VideosOnly:           truthy(q.Get("videos_only")),
		InternationalVersion: truthy(queryOrDefault(r, "international_version", "true")),
	}
	opts := domain.FilterOptions{
		IncludeVideos: truthy(q.Get("include_videos")),
		HideNoPrompt:  truthy(q.Get("hide_no_prompt")),
		VideosOnly:    params.VideosOnly,
		Query:         params.Query,
	}

	cursor := q.Get("cursor")
	minBatch := clampInt(q.Get("min_batch"), 1, 500, 50)
	timeBudgetMs := clampInt(q.Get("time_budget_ms"), 0, 15000, 0)

	result, err := h.aggregateUC.Execute(r.Context(), params, opts, cursor, minBatch,
		time.Duration(timeBudgetMs)*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nothing useful to write.
			return
		}
		logger.Error("Aggregate stream use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to aggregate stream")
		return
	}

	items := result.Items
	if items == nil {
		items = []domain.Item{}
	}
	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	RespondWithJSON(w, http.StatusOK, StreamResponse{
		Items: items,
		Metadata: StreamMetadata{
			Aggregated:       true,
			NextCursor:       nextCursor,
			Served:           result.Served,
			DroppedByFilters: result.Dropped,
			HasMore:          result.HasMore,
			Nsfw:             params.Nsfw,
			Sort:             params.Sort,
			Period:           params.Period,
			VideosOnly:       params.VideosOnly,
			ElapsedMs:        result.Elapsed.Milliseconds(),
			TimeBudgetMs:     timeBudgetMs,
		},
	})
}
