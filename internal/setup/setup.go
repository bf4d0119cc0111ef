// Package setup prepares test cases for execution: it builds the merged
// configuration, lays out working directories, runs step setup hooks, writes
// the case config file and generates the standalone run script.
package setup

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/core"
	"github.com/mpas-dev/compass/internal/ctxlog"
	"github.com/mpas-dev/compass/internal/step"
	"github.com/mpas-dev/compass/internal/testcase"
	"github.com/mpas-dev/compass/internal/testgroup"
)

// Options carries the inputs shared by all cases being set up in one
// invocation.
type Options struct {
	// Machine is the machine profile config layer.
	Machine *config.Config
	// User is an optional config layer overriding everything but Configure.
	User *config.Config
	// BaseWorkDir is the root under which <core>/<group>/<subdir> trees are
	// created.
	BaseWorkDir string
}

// Case sets up one test case: merge config layers (machine, core defaults,
// group defaults, user overrides, then the case's own Configure), create the
// case and step work directories, resolve step file paths, run step setup
// hooks, write the merged config and generate the run script.
func Case(ctx context.Context, c *core.Core, g *testgroup.Group, tc *testcase.TestCase, opts Options) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Setting up test case", "path", tc.Path)

	cfg := config.New()
	cfg.Merge(opts.Machine)
	for _, layer := range []struct{ name, src string }{
		{c.Name, c.DefaultConfig},
		{g.Name, g.DefaultConfig},
	} {
		if layer.src == "" {
			continue
		}
		parsed, err := config.LoadSource(layer.name+".cfg", []byte(layer.src))
		if err != nil {
			return err
		}
		cfg.Merge(parsed)
	}
	cfg.Merge(opts.User)

	if err := tc.Configure(cfg); err != nil {
		return fmt.Errorf("configuring %s: %w", tc.Path, err)
	}

	baseWorkDir, err := filepath.Abs(opts.BaseWorkDir)
	if err != nil {
		return err
	}
	workDir := filepath.Join(baseWorkDir, filepath.FromSlash(tc.Path))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}
	tc.WorkDir = workDir
	tc.BaseWorkDir = baseWorkDir
	tc.ConfigFilename = filepath.Join(workDir, "case.cfg")

	// Record the case identity so the generated run script can rebuild the
	// test case from the config file alone.
	cfg.SetString("test_case", "core", tc.CoreName)
	cfg.SetString("test_case", "test_group", tc.GroupName)
	cfg.SetString("test_case", "subdir", tc.Subdir)
	cfg.SetStringList("test_case", "steps_to_run", tc.StepsToRun)
	cfg.SetString("test_case", "work_dir", tc.WorkDir)
	cfg.SetString("test_case", "base_work_dir", tc.BaseWorkDir)

	for _, s := range tc.AllSteps() {
		if err := setupStep(ctx, tc, s, cfg); err != nil {
			return err
		}
	}

	file, err := os.Create(tc.ConfigFilename)
	if err != nil {
		return err
	}
	if err := cfg.Write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return tc.Generate()
}

func setupStep(ctx context.Context, tc *testcase.TestCase, s *step.Step, cfg *config.Config) error {
	s.Path = path.Join(tc.Path, s.Subdir)
	s.WorkDir = filepath.Join(tc.BaseWorkDir, filepath.FromSlash(s.Path))
	if err := os.MkdirAll(s.WorkDir, 0o755); err != nil {
		return err
	}
	s.Config = cfg
	s.ResolvePaths()

	if setuper, ok := s.Runner.(step.Setuper); ok {
		if err := setuper.Setup(ctx, s); err != nil {
			return fmt.Errorf("setting up step %s of %s: %w", s.Name, tc.Path, err)
		}
	}
	return nil
}
