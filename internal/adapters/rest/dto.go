package rest

import "github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"

// StatusResponse is the envelope for mutation endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// PageMetadata describes one page over the favorites store.
type PageMetadata struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// FavoritesPageResponse is the GET /favorites/page payload.
type FavoritesPageResponse struct {
	Items    []domain.Item `json:"items"`
	Metadata PageMetadata  `json:"metadata"`
}

// TagsResponse is the GET /favorites/tags/all payload.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// StreamMetadata echoes the aggregation outcome and the resolved parameters.
type StreamMetadata struct {
	Aggregated       bool    `json:"aggregated"`
	NextCursor       *string `json:"nextCursor"`
	Served           int     `json:"served"`
	DroppedByFilters int     `json:"droppedByFilters"`
	HasMore          bool    `json:"hasMore"`
	Nsfw             string  `json:"nsfw"`
	Sort             string  `json:"sort"`
	Period           string  `json:"period"`
	VideosOnly       bool    `json:"videosOnly"`
	ElapsedMs        int64   `json:"elapsedMs"`
	TimeBudgetMs     int     `json:"timeBudgetMs"`
}

// StreamResponse is the GET /stream payload.
type StreamResponse struct {
	Items    []domain.Item  `json:"items"`
	Metadata StreamMetadata `json:"metadata"`
}

// WorkflowCheckResponse is the POST /media/check_workflow payload.
type WorkflowCheckResponse struct {
	HasWorkflow bool   `json:"has_workflow"`
	Error       string `json:"error,omitempty"`
}

// SelectionResponse carries the four node-graph outputs. ImagePNG is
// base64-encoded by encoding/json.
type SelectionResponse struct {
	PositivePrompt string `json:"positive_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	ImagePNG       []byte `json:"image_png"`
	Info           string `json:"info"`
}
