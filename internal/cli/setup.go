package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/machine"
	"github.com/mpas-dev/compass/internal/setup"
)

// newSetupCommand prepares one test case's work directory.
func newSetupCommand(opts *Options) *cobra.Command {
	var (
		casePath    string
		workDir     string
		machineName string
		machineFile string
		configFile  string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up a test case's work directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if casePath == "" {
				return fmt.Errorf("a test case is required; pick one from 'compass list' with -t")
			}

			c, g, tc, err := opts.Suite.Find(casePath)
			if err != nil {
				return err
			}

			var machineCfg *config.Config
			if machineFile != "" {
				machineCfg, err = machine.LoadProfileFile(machineFile)
			} else {
				machineCfg, err = machine.LoadProfile(machineName)
			}
			if err != nil {
				return err
			}

			var userCfg *config.Config
			if configFile != "" {
				if userCfg, err = config.LoadFile(configFile); err != nil {
					return err
				}
			}

			return setup.Case(cmd.Context(), c, g, tc, setup.Options{
				Machine:     machineCfg,
				User:        userCfg,
				BaseWorkDir: workDir,
			})
		},
	}

	cmd.Flags().StringVarP(&casePath, "test", "t", "", "Test case path, <core>/<test-group>/<subdir>")
	cmd.Flags().StringVarP(&workDir, "work-dir", "w", ".", "Base work directory")
	cmd.Flags().StringVarP(&machineName, "machine", "m", machine.Default, "Machine profile name")
	cmd.Flags().StringVar(&machineFile, "machine-file", "", "Machine profile file overriding --machine")
	cmd.Flags().StringVarP(&configFile, "config-file", "f", "", "User config file merged over all defaults")
	return cmd
}
