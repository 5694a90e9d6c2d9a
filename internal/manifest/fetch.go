package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/pkg/types"
)

// Fetcher downloads and validates the manifest from a fixed URL.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher creates a Fetcher for the given manifest URL. A zero timeout
// falls back to types.DefaultHTTPTimeout.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = types.DefaultHTTPTimeout
	}
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the manifest, decodes it, and validates it.
func (f *Fetcher) Fetch(ctx context.Context) (*types.Manifest, error) {
	logger.Debug("fetching manifest from %s\n", f.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching manifest: HTTP status %d", resp.StatusCode)
	}

	var m types.Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("manifest lists %d tools\n", len(m.Tools))
	return &m, nil
}

// Update fetches the manifest and caches it in the data dir.
func (f *Fetcher) Update(ctx context.Context, dataDir string) (*types.Manifest, error) {
	m, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := Save(dataDir, m); err != nil {
		return nil, err
	}
	return m, nil
}
