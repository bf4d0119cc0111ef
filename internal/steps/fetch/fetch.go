// Package fetch provides a step that downloads remote input datasets into a
// test case's working directory, via the shared download cache.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/mpas-dev/compass/internal/ctxlog"
	"github.com/mpas-dev/compass/internal/download"
	"github.com/mpas-dev/compass/internal/step"
)

// Runner downloads each URL into the machine's database root (config key
// paths.database_root) and symlinks the files into the step's work
// directory. With no database root configured, files land in the work
// directory itself.
type Runner struct {
	URLs []string
}

// New builds a fetch step named name. The base name of every URL is declared
// as a step output.
func New(name string, urls []string) *step.Step {
	s := step.New(name, &Runner{URLs: urls})
	for _, u := range urls {
		s.AddOutput(path.Base(u))
	}
	return s
}

// Run implements step.Runner.
func (r *Runner) Run(ctx context.Context, s *step.Step) error {
	if s.Logger != nil {
		ctx = ctxlog.WithLogger(ctx, s.Logger)
	}

	cacheDir := s.WorkDir
	if s.Config != nil && s.Config.Has("paths", "database_root") {
		root, err := s.Config.GetString("paths", "database_root")
		if err != nil {
			return err
		}
		if root != "" && !filepath.IsAbs(root) {
			// Relative database roots are anchored at the step work dir so
			// sandboxed runs stay self-contained.
			root = filepath.Join(s.WorkDir, root)
		}
		if root != "" {
			cacheDir = root
		}
	}

	for _, url := range r.URLs {
		local, err := download.Fetch(ctx, url, cacheDir)
		if err != nil {
			return err
		}
		if cacheDir == s.WorkDir {
			continue
		}
		link := filepath.Join(s.WorkDir, filepath.Base(local))
		if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
			return err
		}
		if err := os.Symlink(local, link); err != nil {
			return fmt.Errorf("linking %s into %s: %w", local, s.WorkDir, err)
		}
	}
	return nil
}
