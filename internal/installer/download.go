package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/venueforge/venuekit/internal/logger"
	"github.com/venueforge/venuekit/pkg/types"
)

// download fetches the tool's artifact to a temp file and verifies its
// SHA256 when the manifest provides one. The caller removes the file.
func (i *Installer) download(ctx context.Context, tool types.Tool) (string, error) {
	logger.Debug("downloading %s\n", tool.Artifact.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tool.Artifact.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building artifact request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", tool.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP status %d", tool.Name, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "venuekit-artifact-*")
	if err != nil {
		return "", fmt.Errorf("creating artifact temp file: %w", err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing artifact temp file: %w", err)
	}

	if want := tool.Artifact.SHA256; want != "" {
		got := hex.EncodeToString(hasher.Sum(nil))
		if !strings.EqualFold(got, want) {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("%w: %s: got %s, want %s", types.ErrChecksumMismatch, tool.Name, got, want)
		}
	}

	return tmp.Name(), nil
}
