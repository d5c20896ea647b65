package domain

import "time"

// MaxAggregationPages is the hard ceiling on upstream fetches within one
// aggregation call, so the loop cannot hammer the upstream forever when
// filters reject almost everything.
const MaxAggregationPages = 50

// FetchParams is the set of stable upstream query parameters held constant
// across all pages of one aggregation call; only the cursor varies.
type FetchParams struct {
	Nsfw           string
	Sort           string
	Period         string
	Username       string
	Tags           string
	Query          string
	BaseModels     string
	ModelID        string
	ModelVersionID string

	// VideosOnly selects a larger upstream page size, since video items are
	// sparse and more pages would otherwise be needed.
	VideosOnly bool

	// InternationalVersion selects the civitai.com domain; the mirror domain
	// is used otherwise.
	InternationalVersion bool
}

// GalleryPage is one normalized upstream response. Note carries the
// diagnostic for a failed or malformed page; such pages have no items and no
// cursor, which the aggregator treats as end-of-pagination.
type GalleryPage struct {
	Items      []Item
	Malformed  int
	NextCursor string
	Note       string
}

// AggregationResult is the outcome of one aggregation call. Constructed
// fresh per call, never persisted.
type AggregationResult struct {
	Items      []Item
	NextCursor string
	Served     int
	Dropped    int
	Elapsed    time.Duration
	HasMore    bool
	Notes      []string
}

// FavoritesPage is a 1-indexed slice over the favorites store.
type FavoritesPage struct {
	Items       []Item
	TotalItems  int
	CurrentPage int
	PageSize    int
	TotalPages  int
}
