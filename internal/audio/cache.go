package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"recordream/internal/contextutil"
)

// Cache keeps local copies of remote voice recordings so a player can open
// them by path.
type Cache struct {
	dir    string
	client *http.Client
	group  singleflight.Group
}

// NewCache returns a cache that stores files under dir.
func NewCache(dir string, timeout time.Duration) *Cache {
	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: timeout},
	}
}

// Path is the local file a URL is cached at.
func (c *Cache) Path(url string) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String() + ".wav"
	return filepath.Join(c.dir, name)
}

// Resolve returns a local path for url, downloading it on first use.
// Values without an http(s) scheme are treated as local paths already.
// Concurrent calls for the same url share one download.
func (c *Cache) Resolve(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return url, nil
	}

	path := c.Path(url)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		return path, c.download(ctx, url, path)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) download(ctx context.Context, url, path string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("download voice: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download voice: bad status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, "voice-*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write voice: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store voice: %w", err)
	}

	logger.DebugContext(ctx, "voice cached", "url", url, "path", path, "bytes", n)
	return nil
}
