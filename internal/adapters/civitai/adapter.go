package civitai

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL       = "https://civitai.com/api/v1/images"
	defaultMirrorBaseURL = "https://civitai.work/api/v1/images"

	// Upstream page sizes. Videos are sparse, so video-only calls request
	// larger pages to keep the aggregator's page count down.
	pageLimit      = 100
	videoPageLimit = 200
)

// Config for the upstream client. RequestTimeout bounds each single request
// independently of the aggregator's overall time budget, so one hung request
// cannot stall the loop past its deadline by more than this.
type Config struct {
	BaseURL        string
	MirrorBaseURL  string
	RequestTimeout time.Duration
}

// CivitaiAdapter issues single paginated requests to the remote gallery API.
// It carries no state between calls: one attempt per page, no caching, no
// retries.
type CivitaiAdapter struct {
	cfg        Config
	httpClient *http.Client
}

func NewCivitaiAdapter(cfg Config) *CivitaiAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MirrorBaseURL == "" {
		cfg.MirrorBaseURL = defaultMirrorBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	return &CivitaiAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}
