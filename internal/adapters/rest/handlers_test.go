package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, fields port.Fields)             {}
func (nopLogger) Warn(msg string, fields port.Fields)             {}
func (nopLogger) Error(msg string, err error, fields port.Fields) {}
func (nopLogger) Debug(msg string, fields port.Fields)            {}
func (l nopLogger) WithFields(fields port.Fields) port.LoggerPort { return l }

// Fakes for the use case ports, scripted per test.

type fakeToggleUC struct {
	status string
	err    error
	got    domain.Item
}

func (f *fakeToggleUC) Execute(ctx context.Context, item domain.Item) (string, error) {
	f.got = item
	return f.status, f.err
}

type fakeUpsertUC struct {
	err error
	got domain.Item
}

func (f *fakeUpsertUC) Execute(ctx context.Context, item domain.Item) error {
	f.got = item
	return f.err
}

type fakeListUC struct {
	out map[string]domain.Item
}

func (f *fakeListUC) Execute(ctx context.Context) (map[string]domain.Item, error) {
	return f.out, nil
}

type fakePageUC struct {
	gotPage  int
	gotLimit int
	out      domain.FavoritesPage
}

func (f *fakePageUC) Execute(ctx context.Context, page, limit int) (domain.FavoritesPage, error) {
	f.gotPage = page
	f.gotLimit = limit
	return f.out, nil
}

type fakeSetTagsUC struct {
	err     error
	gotID   string
	gotTags []string
}

func (f *fakeSetTagsUC) Execute(ctx context.Context, id string, tags []string) error {
	f.gotID = id
	f.gotTags = tags
	return f.err
}

type fakeAllTagsUC struct {
	out []string
}

func (f *fakeAllTagsUC) Execute(ctx context.Context) ([]string, error) {
	return f.out, nil
}

type fakeAggregateUC struct {
	gotParams   domain.FetchParams
	gotOpts     domain.FilterOptions
	gotCursor   string
	gotMinBatch int
	gotBudget   time.Duration
	out         domain.AggregationResult
	err         error
}

func (f *fakeAggregateUC) Execute(ctx context.Context, params domain.FetchParams, opts domain.FilterOptions,
	startCursor string, minBatch int, timeBudget time.Duration) (domain.AggregationResult, error) {
	f.gotParams = params
	f.gotOpts = opts
	f.gotCursor = startCursor
	f.gotMinBatch = minBatch
	f.gotBudget = timeBudget
	return f.out, f.err
}

type fakeSelectionUC struct {
	out domain.SelectionResult
}

func (f *fakeSelectionUC) Execute(ctx context.Context, sel domain.Selection) (domain.SelectionResult, error) {
	return f.out, nil
}

type fakeCheckUC struct {
	out domain.WorkflowProbe
	err error
}

func (f *fakeCheckUC) Execute(ctx context.Context, url string) (domain.WorkflowProbe, error) {
	return f.out, f.err
}

type fakeMediaPort struct {
	download port.MediaDownload
	err      error
}

func (f *fakeMediaPort) FetchPrefix(ctx context.Context, url string, maxBytes int64) (port.MediaPrefix, error) {
	return port.MediaPrefix{}, nil
}

func (f *fakeMediaPort) Download(ctx context.Context, url string) (port.MediaDownload, error) {
	return f.download, f.err
}

func (f *fakeMediaPort) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return nil, nil
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "On", " true "} {
		if !truthy(s) {
			t.Errorf("truthy(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "2", "enabled", "y"} {
		if truthy(s) {
			t.Errorf("truthy(%q) = true, want false", s)
		}
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 50},
		{"abc", 50},
		{"0", 1},
		{"7", 7},
		{"9999", 500},
		{" 10 ", 10},
	}
	for _, tt := range tests {
		if got := clampInt(tt.in, 1, 500, 50); got != tt.want {
			t.Errorf("clampInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestToggleFavoriteHandler(t *testing.T) {
	toggle := &fakeToggleUC{status: "added"}
	h := NewFavoritesHandler(&fakeListUC{}, toggle, &fakeUpsertUC{}, &fakePageUC{}, &fakeSetTagsUC{}, &fakeAllTagsUC{})

	rec := postJSON(t, h.ToggleFavorite, `{"item": {"id": 42, "url": "https://cdn.example.com/a.jpeg"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "added" {
		t.Errorf("status = %q, want added", resp.Status)
	}
	if toggle.got.ID() != "42" {
		t.Errorf("use case received id %q, want 42", toggle.got.ID())
	}
}

func TestToggleFavoriteHandlerRejectsBadPayloads(t *testing.T) {
	h := NewFavoritesHandler(&fakeListUC{}, &fakeToggleUC{}, &fakeUpsertUC{}, &fakePageUC{}, &fakeSetTagsUC{}, &fakeAllTagsUC{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{{{"},
		{"missing item", `{"download_image": true}`},
		{"item without id", `{"item": {"url": "https://cdn.example.com/a.jpeg"}}`},
		{"item not an object", `{"item": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.ToggleFavorite, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetFavoritesPageHandlerClamps(t *testing.T) {
	pageUC := &fakePageUC{out: domain.FavoritesPage{Items: []domain.Item{}, CurrentPage: 1, PageSize: 200}}
	h := NewFavoritesHandler(&fakeListUC{}, &fakeToggleUC{}, &fakeUpsertUC{}, pageUC, &fakeSetTagsUC{}, &fakeAllTagsUC{})

	req := httptest.NewRequest(http.MethodGet, "/favorites/page?page=-5&limit=100000", nil)
	rec := httptest.NewRecorder()
	h.GetFavoritesPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if pageUC.gotPage != 1 {
		t.Errorf("page = %d, want clamped to 1", pageUC.gotPage)
	}
	if pageUC.gotLimit != 200 {
		t.Errorf("limit = %d, want clamped to 200", pageUC.gotLimit)
	}
}

func TestUpdateFavoriteTagsHandler(t *testing.T) {
	setTags := &fakeSetTagsUC{}
	h := NewFavoritesHandler(&fakeListUC{}, &fakeToggleUC{}, &fakeUpsertUC{}, &fakePageUC{}, setTags, &fakeAllTagsUC{})

	rec := postJSON(t, h.UpdateFavoriteTags, `{"id": 42, "tags": ["a", 7, "b", null]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if setTags.gotID != "42" {
		t.Errorf("id = %q, want numeric id stringified", setTags.gotID)
	}
	if len(setTags.gotTags) != 2 || setTags.gotTags[0] != "a" || setTags.gotTags[1] != "b" {
		t.Errorf("tags = %v, want non-strings skipped", setTags.gotTags)
	}

	rec = postJSON(t, h.UpdateFavoriteTags, `{"tags": ["a"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without id = %d, want 400", rec.Code)
	}

	setTags.err = domain.ErrNotFound
	rec = postJSON(t, h.UpdateFavoriteTags, `{"id": "9"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown id = %d, want 404", rec.Code)
	}
}

func TestStreamHandlerParameterResolution(t *testing.T) {
	agg := &fakeAggregateUC{out: domain.AggregationResult{NextCursor: "c9", Served: 0}}
	h := NewStreamHandler(agg)

	req := httptest.NewRequest(http.MethodGet,
		"/stream?videos_only=1&hide_no_prompt=yes&min_batch=9999&time_budget_ms=-3&cursor=abc&query=castle", nil)
	rec := httptest.NewRecorder()
	h.StreamImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	if agg.gotParams.Nsfw != "None" || agg.gotParams.Sort != "Most Reactions" || agg.gotParams.Period != "Day" {
		t.Errorf("defaults not applied: %+v", agg.gotParams)
	}
	if !agg.gotParams.InternationalVersion {
		t.Error("InternationalVersion default = false, want true")
	}
	if !agg.gotOpts.VideosOnly || !agg.gotOpts.HideNoPrompt {
		t.Errorf("filter opts = %+v, want videos_only and hide_no_prompt set", agg.gotOpts)
	}
	if agg.gotOpts.Query != "castle" {
		t.Errorf("Query = %q, want castle", agg.gotOpts.Query)
	}
	if agg.gotCursor != "abc" {
		t.Errorf("cursor = %q, want abc", agg.gotCursor)
	}
	if agg.gotMinBatch != 500 {
		t.Errorf("minBatch = %d, want clamped to 500", agg.gotMinBatch)
	}
	if agg.gotBudget != 0 {
		t.Errorf("timeBudget = %v, want clamped to 0", agg.gotBudget)
	}

	var resp StreamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Items == nil {
		t.Error("items serialized as null, want empty array")
	}
	if resp.Metadata.NextCursor == nil || *resp.Metadata.NextCursor != "c9" {
		t.Errorf("nextCursor = %v, want c9", resp.Metadata.NextCursor)
	}
	if !resp.Metadata.Aggregated {
		t.Error("aggregated = false, want true")
	}
}

func TestStreamHandlerNilCursor(t *testing.T) {
	agg := &fakeAggregateUC{out: domain.AggregationResult{}}
	h := NewStreamHandler(agg)

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()
	h.StreamImages(rec, req)

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	md := raw["metadata"].(map[string]any)
	if md["nextCursor"] != nil {
		t.Errorf("nextCursor = %v, want JSON null at end of pagination", md["nextCursor"])
	}
	if agg.gotMinBatch != 50 {
		t.Errorf("default minBatch = %d, want 50", agg.gotMinBatch)
	}
}

func TestCheckWorkflowHandler(t *testing.T) {
	h := NewMediaHandler(&fakeCheckUC{out: domain.WorkflowProbe{HasWorkflow: true}}, &fakeMediaPort{})

	rec := postJSON(t, h.CheckWorkflow, `{"url": "https://cdn.example.com/clip.mp4"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp WorkflowCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.HasWorkflow {
		t.Error("has_workflow = false, want true")
	}

	rec = postJSON(t, h.CheckWorkflow, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without url = %d, want 400", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "URL is missing" {
		t.Errorf("error = %q, want URL is missing", resp.Error)
	}
}

func TestDownloadMediaHandler(t *testing.T) {
	media := &fakeMediaPort{download: port.MediaDownload{
		Body:        io.NopCloser(strings.NewReader("video-bytes")),
		StatusCode:  http.StatusOK,
		Status:      "200 OK",
		ContentType: "video/mp4",
	}}
	h := NewMediaHandler(&fakeCheckUC{}, media)

	req := httptest.NewRequest(http.MethodGet, "/media/download?url=https://cdn.example.com/path/clip.mp4?token=x", nil)
	rec := httptest.NewRecorder()
	h.DownloadMedia(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "video-bytes" {
		t.Errorf("body = %q, want streamed bytes", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `"clip.mp4"`) {
		t.Errorf("Content-Disposition = %q, want the query-stripped filename", cd)
	}

	req = httptest.NewRequest(http.MethodGet, "/media/download", nil)
	rec = httptest.NewRecorder()
	h.DownloadMedia(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without url = %d, want 400", rec.Code)
	}
}

func TestDownloadMediaHandlerUpstreamFailure(t *testing.T) {
	media := &fakeMediaPort{download: port.MediaDownload{
		Body:       io.NopCloser(strings.NewReader("denied")),
		StatusCode: http.StatusForbidden,
		Status:     "403 Forbidden",
	}}
	h := NewMediaHandler(&fakeCheckUC{}, media)

	req := httptest.NewRequest(http.MethodGet, "/media/download?url=https://cdn.example.com/clip.mp4", nil)
	rec := httptest.NewRecorder()
	h.DownloadMedia(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want upstream status passed through", rec.Code)
	}
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/a/b/clip.mp4", "clip.mp4"},
		{"https://cdn.example.com/a/clip.mp4?token=abc", "clip.mp4"},
		{"https://cdn.example.com/a/", fallbackDownloadName},
	}
	for _, tt := range tests {
		if got := downloadFilename(tt.url); got != tt.want {
			t.Errorf("downloadFilename(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestResolveSelectionHandlerETag(t *testing.T) {
	h := NewNodeHandler(&fakeSelectionUC{out: domain.SelectionResult{
		PositivePrompt: "a castle",
		Info:           "{}",
	}})

	body := `{"item": {"id": 1, "meta": {"prompt": "a castle"}}, "download_image": false}`

	req := httptest.NewRequest(http.MethodPost, "/node/selection", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.ResolveSelection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("no ETag on response")
	}
	var resp SelectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.PositivePrompt != "a castle" {
		t.Errorf("positive_prompt = %q", resp.PositivePrompt)
	}

	// Same payload with the ETag short-circuits.
	req = httptest.NewRequest(http.MethodPost, "/node/selection", bytes.NewReader([]byte(body)))
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ResolveSelection(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304 on matching ETag", rec.Code)
	}

	// A different payload gets a different ETag and a full response.
	req = httptest.NewRequest(http.MethodPost, "/node/selection", bytes.NewReader([]byte(body+" ")))
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ResolveSelection(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for changed payload", rec.Code)
	}
	if rec.Header().Get("ETag") == etag {
		t.Error("ETag unchanged for a different payload")
	}
}

func TestServerRouteTable(t *testing.T) {
	favorites := NewFavoritesHandler(&fakeListUC{out: map[string]domain.Item{}}, &fakeToggleUC{status: "added"},
		&fakeUpsertUC{}, &fakePageUC{}, &fakeSetTagsUC{}, &fakeAllTagsUC{out: []string{}})
	stream := NewStreamHandler(&fakeAggregateUC{})
	media := NewMediaHandler(&fakeCheckUC{}, &fakeMediaPort{download: port.MediaDownload{
		Body:       io.NopCloser(strings.NewReader("")),
		StatusCode: http.StatusOK,
	}})
	node := NewNodeHandler(&fakeSelectionUC{})

	server := NewServer("0", favorites, stream, media, node, nopLogger{})
	ts := httptest.NewServer(server.httpServer.Handler)
	defer ts.Close()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/favorites", "", http.StatusOK},
		{http.MethodPost, "/favorites/toggle", `{"item": {"id": "1"}}`, http.StatusOK},
		{http.MethodPost, "/favorites/upsert", `{"item": {"id": "1"}}`, http.StatusOK},
		{http.MethodGet, "/favorites/page", "", http.StatusOK},
		{http.MethodPost, "/favorites/tags", `{"id": "1"}`, http.StatusOK},
		{http.MethodGet, "/favorites/tags/all", "", http.StatusOK},
		{http.MethodGet, "/stream", "", http.StatusOK},
		{http.MethodPost, "/media/check_workflow", `{"url": "https://cdn.example.com/x.mp4"}`, http.StatusOK},
		{http.MethodGet, "/media/download?url=https://cdn.example.com/x.mp4", "", http.StatusOK},
		{http.MethodPost, "/node/selection", `{"item": {"id": "1"}}`, http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var bodyReader io.Reader
			if tt.body != "" {
				bodyReader = strings.NewReader(tt.body)
			}
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, bodyReader)
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				b, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d; body: %s", resp.StatusCode, tt.want, b)
			}
		})
	}
}
