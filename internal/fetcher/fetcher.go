// Package fetcher retrieves raw playlist text over HTTP. Requests can be
// routed through a relay that adds permissive CORS headers, matching the
// clients this service feeds.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marcsigha/bbtv/internal/logger"
)

// Interface defines the contract for fetching raw playlist content.
type Interface interface {
	// Fetch retrieves the playlist text behind rawURL.
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// maxBodySize caps how much playlist text a single fetch will read (16 MiB).
const maxBodySize = 16 << 20

// Fetcher fetches playlist text with a bounded timeout.
type Fetcher struct {
	client    *http.Client
	relayURL  string
	userAgent string
}

// New creates a Fetcher. relayURL is optional; when set, every request is
// routed through it as "<relayURL>?url=<target>".
func New(timeout time.Duration, relayURL, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		relayURL:  relayURL,
		userAgent: userAgent,
	}
}

// Fetch retrieves the playlist text behind rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target := rawURL
	if f.relayURL != "" {
		target = fmt.Sprintf("%s?url=%s", f.relayURL, url.QueryEscape(rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build playlist request: %w", err)
	}
	req.Header.Set("Accept", "application/x-mpegURL, application/vnd.apple.mpegurl, text/plain, */*")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logger.Log.Debug().
		Str("url", rawURL).
		Bool("relayed", f.relayURL != "").
		Msg("Fetching playlist")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("playlist request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Log.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playlist request failed: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read playlist body: %w", err)
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", rawURL)
	}

	return text, nil
}
