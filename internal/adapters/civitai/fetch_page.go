package civitai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/contextkeys"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

// cursorAliases is the fixed priority order for the continuation token. The
// upstream is inconsistent about the field name; the first non-empty alias
// wins, and an unknown name silently degrades to "no more pages".
var cursorAliases = []string{"nextCursor", "cursor", "next"}

func (a *CivitaiAdapter) buildURL(params domain.FetchParams, cursor string) (string, error) {
	base := a.cfg.BaseURL
	if !params.InternationalVersion {
		base = a.cfg.MirrorBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	limit := pageLimit
	if params.VideosOnly {
		limit = videoPageLimit
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("nsfw", params.Nsfw)
	q.Set("sort", params.Sort)
	q.Set("period", params.Period)
	if params.Username != "" {
		q.Set("username", params.Username)
	}
	if params.Tags != "" {
		q.Set("tags", params.Tags)
	}
	if params.Query != "" {
		q.Set("query", params.Query)
	}
	if params.ModelID != "" {
		q.Set("modelId", params.ModelID)
	}
	if params.ModelVersionID != "" {
		q.Set("modelVersionId", params.ModelVersionID)
	}
	if params.BaseModels != "" {
		q.Set("baseModels", params.BaseModels)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage implements port.GalleryFetcherPort. Upstream failures are
// fail-soft: the returned page carries a diagnostic note and no cursor, which
// stops pagination without surfacing an error.
func (a *CivitaiAdapter) FetchPage(ctx context.Context, params domain.FetchParams, cursor string) (domain.GalleryPage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "CivitaiAdapter(FetchPage)"})

	targetURL, err := a.buildURL(params, cursor)
	if err != nil {
		return domain.GalleryPage{}, fmt.Errorf("civitai adapter: failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return domain.GalleryPage{}, fmt.Errorf("civitai adapter: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	logger.Debug("Making request to fetch gallery page", port.Fields{"url": targetURL})

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.GalleryPage{}, ctx.Err()
		}
		logger.Error("Upstream request failed", err, port.Fields{"url": targetURL})
		return domain.GalleryPage{Note: "upstream unreachable: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read upstream response", err, nil)
		return domain.GalleryPage{Note: "upstream read failed: " + err.Error()}, nil
	}

	if resp.StatusCode != http.StatusOK {
		detail := string(body)
		if len(detail) > 400 {
			detail = detail[:400]
		}
		logger.Warn("Upstream returned non-success status", port.Fields{
			"status": resp.StatusCode,
			"detail": detail,
		})
		return domain.GalleryPage{Note: fmt.Sprintf("upstream %d", resp.StatusCode)}, nil
	}

	return parsePage(body), nil
}

// parsePage normalizes the loose upstream payload. Numbers are decoded as
// json.Number so large ids survive stringification.
func parsePage(body []byte) domain.GalleryPage {
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return domain.GalleryPage{Note: "bad json"}
	}

	page := domain.GalleryPage{}

	if rawItems, ok := root["items"].([]any); ok {
		page.Items = make([]domain.Item, 0, len(rawItems))
		for _, raw := range rawItems {
			if m, ok := raw.(map[string]any); ok {
				page.Items = append(page.Items, domain.Item(m))
			} else {
				page.Malformed++
			}
		}
	}

	if md, ok := root["metadata"].(map[string]any); ok {
		page.NextCursor = domain.FirstString(md, cursorAliases...)
	}
	return page
}
