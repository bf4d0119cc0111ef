package testcase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpas-dev/compass/internal/logging"
	"github.com/mpas-dev/compass/internal/machine"
	"github.com/mpas-dev/compass/internal/step"
)

// Run executes the test case's steps in StepsToRun order. The first failing
// step aborts the rest; its error propagates to the caller unchanged. The
// process working directory observed before the call is restored after every
// step, success or failure, so a runner that changes directory cannot leak
// into the next step or the caller.
func (tc *TestCase) Run(ctx context.Context) error {
	logger := tc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("recording working directory: %w", err)
	}

	for _, name := range tc.StepsToRun {
		s, ok := tc.Steps[name]
		if !ok {
			return fmt.Errorf("unknown step %s in test case %s", name, tc.Name)
		}
		s.Config = tc.Config

		newLogFile := tc.NewStepLogFile
		// Local log lines are redundant when the one step being run already
		// writes straight to the caller's output, so only emit them when the
		// test case output is captured to a file or per-step files are on.
		localLogging := newLogFile
		if tc.LogFilename != "" {
			s.LogFilename = tc.LogFilename
			localLogging = true
		}

		if localLogging {
			logger.Info(" * Running " + name)
		}

		runErr := tc.runStep(ctx, s, newLogFile)

		if chErr := os.Chdir(cwd); chErr != nil && runErr == nil {
			runErr = fmt.Errorf("restoring working directory: %w", chErr)
		}

		if runErr != nil {
			if localLogging {
				logger.Info("     Failed")
			}
			return runErr
		}
		if localLogging {
			logger.Info("     Complete")
		}
	}

	return nil
}

// runStep executes one step: clamp the core request to the machine
// allocation, check declared inputs, run the step under a scoped logging
// context, then check declared outputs.
func (tc *TestCase) runStep(ctx context.Context, s *step.Step, newLogFile bool) error {
	available, _, err := machine.AvailableCoresAndNodes(tc.Config)
	if err != nil {
		return err
	}
	if s.Cores > available {
		s.Cores = available
	}
	if s.MinCores > 0 && s.Cores < s.MinCores {
		return &ResourceError{Step: s.Name, Cores: s.Cores, MinCores: s.MinCores}
	}

	if missing := missingFiles(s.Inputs); len(missing) > 0 {
		return &MissingFilesError{
			Kind: "input", Step: s.Name,
			Core: tc.CoreName, Group: tc.GroupName, Sub: tc.Subdir,
			Files: missing,
		}
	}

	// Path separators make poor log identifiers.
	logName := strings.ReplaceAll(s.Path, "/", "_")

	var parent *slog.Logger
	var logFilename string
	if newLogFile {
		dir := tc.WorkDir
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return err
			}
		}
		logFilename = filepath.Join(dir, s.Name+".log")
		s.LogFilename = logFilename
	} else {
		parent = tc.Logger
	}

	logCtx, err := logging.NewContext(logName, parent, logFilename)
	if err != nil {
		return err
	}

	runErr := func() error {
		defer logCtx.Close()
		s.Logger = logCtx.Logger()
		return s.Runner.Run(ctx, s)
	}()
	if runErr != nil {
		return runErr
	}

	// A missing output is a post-condition violation, not a retry trigger:
	// the runner already reported success but broke its contract.
	if missing := missingFiles(s.Outputs); len(missing) > 0 {
		return &MissingFilesError{
			Kind: "output", Step: s.Name,
			Core: tc.CoreName, Group: tc.GroupName, Sub: tc.Subdir,
			Files: missing,
		}
	}

	return nil
}

func missingFiles(paths []string) []string {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}
