package mediafetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

const userAgent = "Mozilla/5.0"

// Client wraps raw media I/O against remote hosts: ranged prefix probes,
// streaming downloads and full in-memory image fetches.
type Client struct {
	httpClient *http.Client

	// streamClient has no overall timeout: http.Client.Timeout also covers
	// body reads, which would cut long proxied downloads short. Cancellation
	// comes from the request context instead.
	streamClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("mediafetch: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func (c *Client) FetchPrefix(ctx context.Context, url string, maxBytes int64) (port.MediaPrefix, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return port.MediaPrefix{}, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", maxBytes))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.MediaPrefix{}, err
	}
	defer resp.Body.Close()

	// Servers ignoring the Range header send the whole file; cap the read
	// regardless.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return port.MediaPrefix{}, err
	}
	return port.MediaPrefix{Body: body, StatusCode: resp.StatusCode}, nil
}

func (c *Client) Download(ctx context.Context, url string) (port.MediaDownload, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return port.MediaDownload{}, err
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return port.MediaDownload{}, err
	}
	return port.MediaDownload{
		Body:        resp.Body,
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mediafetch: image fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
