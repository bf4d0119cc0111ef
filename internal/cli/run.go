package cli

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/ctxlog"
)

// newRunCommand executes a previously set-up test case from its work
// directory. This is the command the generated run script invokes.
func newRunCommand(opts *Options) *cobra.Command {
	var (
		configFile string
		steps      []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a test case that has been set up in the current directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := ctxlog.FromContext(ctx)

			cfg, err := config.LoadFile(configFile)
			if err != nil {
				return err
			}

			coreName, err := cfg.GetString("test_case", "core")
			if err != nil {
				return fmt.Errorf("%s does not describe a set-up test case: %w", configFile, err)
			}
			groupName, err := cfg.GetString("test_case", "test_group")
			if err != nil {
				return err
			}
			subdir, err := cfg.GetString("test_case", "subdir")
			if err != nil {
				return err
			}

			_, _, tc, err := opts.Suite.Find(path.Join(coreName, groupName, subdir))
			if err != nil {
				return err
			}

			if tc.WorkDir, err = cfg.GetString("test_case", "work_dir"); err != nil {
				return err
			}
			if tc.BaseWorkDir, err = cfg.GetString("test_case", "base_work_dir"); err != nil {
				return err
			}
			tc.ConfigFilename = configFile
			tc.Logger = logger

			if len(steps) > 0 {
				tc.StepsToRun = steps
			} else if tc.StepsToRun, err = cfg.GetStringList("test_case", "steps_to_run"); err != nil {
				return err
			}

			// Step work dirs and file paths were resolved at setup time and
			// recorded relative to the base work dir; rebuild them here.
			for _, s := range tc.AllSteps() {
				s.Path = path.Join(tc.Path, s.Subdir)
				s.WorkDir = filepath.Join(tc.BaseWorkDir, filepath.FromSlash(s.Path))
				s.ResolvePaths()
			}

			if err := tc.Configure(cfg); err != nil {
				return err
			}
			if err := tc.Run(ctx); err != nil {
				return err
			}
			return tc.Validate()
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "case.cfg", "Merged config file written at setup time")
	cmd.Flags().StringSliceVar(&steps, "steps", nil, "Subset of steps to run, overriding the default list")
	return cmd
}
