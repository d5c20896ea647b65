package mediafetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchPrefixSendsRangeHeader(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("prefix-bytes"))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	prefix, err := c.FetchPrefix(context.Background(), srv.URL, 1024)
	if err != nil {
		t.Fatalf("FetchPrefix: %v", err)
	}
	if gotRange != "bytes=0-1024" {
		t.Errorf("Range = %q, want bytes=0-1024", gotRange)
	}
	if string(prefix.Body) != "prefix-bytes" {
		t.Errorf("Body = %q", prefix.Body)
	}
	if prefix.StatusCode != http.StatusPartialContent {
		t.Errorf("StatusCode = %d, want 206", prefix.StatusCode)
	}
}

func TestFetchPrefixCapsIgnoredRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Full file despite the Range request.
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	prefix, err := c.FetchPrefix(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("FetchPrefix: %v", err)
	}
	if len(prefix.Body) > 11 {
		t.Errorf("len(Body) = %d, want the read capped near maxBytes", len(prefix.Body))
	}
}

func TestDownloadStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("streamed"))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	dl, err := c.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer dl.Body.Close()

	if dl.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q", dl.ContentType)
	}
	body, _ := io.ReadAll(dl.Body)
	if string(body) != "streamed" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchImageRejectsNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	if _, err := c.FetchImage(context.Background(), srv.URL); err == nil {
		t.Fatal("err = nil, want failure for 404")
	}
}
