// Package download fetches input datasets into a local cache directory so
// repeated test-case setups do not re-download multi-gigabyte references.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/yaml.v3"

	"github.com/mpas-dev/compass/internal/ctxlog"
)

// IndexFilename is the cache index kept alongside downloaded files.
const IndexFilename = ".compass_cache.yaml"

// entry records one cached download in the index.
type entry struct {
	URL     string    `yaml:"url"`
	Size    int64     `yaml:"size"`
	Fetched time.Time `yaml:"fetched"`
}

type index map[string]entry

func loadIndex(dir string) (index, error) {
	raw, err := os.ReadFile(filepath.Join(dir, IndexFilename))
	if os.IsNotExist(err) {
		return index{}, nil
	}
	if err != nil {
		return nil, err
	}
	idx := index{}
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("parsing cache index in %s: %w", dir, err)
	}
	return idx, nil
}

func (idx index) save(dir string) error {
	raw, err := yaml.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, IndexFilename), raw, 0o644)
}

// Fetch downloads url into destDir and returns the local path. When the
// cache index already records the file and its size on disk matches, no
// request is made. Transient download failures are retried with exponential
// backoff; ctx cancels both the waits and the requests.
func Fetch(ctx context.Context, url, destDir string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	name := path.Base(url)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive a file name from %q", url)
	}
	dest := filepath.Join(destDir, name)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	idx, err := loadIndex(destDir)
	if err != nil {
		return "", err
	}
	if cached, ok := idx[name]; ok {
		if info, err := os.Stat(dest); err == nil && info.Size() == cached.Size {
			logger.Debug("Using cached file.", "file", dest, "url", url)
			return dest, nil
		}
	}

	var size int64
	op := func() error {
		var err error
		size, err = fetchOnce(ctx, url, dest)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Download failed, retrying.", "url", url, "error", err, "wait", wait)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	idx[name] = entry{URL: url, Size: size, Fetched: time.Now().UTC()}
	if err := idx.save(destDir); err != nil {
		return "", err
	}
	logger.Info("Downloaded file.", "file", dest, "size", size)
	return dest, nil
}

func fetchOnce(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, backoff.Permanent(err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status: %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, backoff.Permanent(err)
		}
		return 0, err
	}

	// Download to a temp name so a partial transfer never shadows a good
	// cached copy.
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	size, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return 0, backoff.Permanent(err)
	}
	return size, nil
}
