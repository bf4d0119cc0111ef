package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mpas-dev/compass/internal/ctxlog"
)

// newCleanCommand removes a test case's work directory.
func newCleanCommand(opts *Options) *cobra.Command {
	var (
		casePath string
		workDir  string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove a test case's work directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if casePath == "" {
				return fmt.Errorf("a test case is required; pick one from 'compass list' with -t")
			}
			_, _, tc, err := opts.Suite.Find(casePath)
			if err != nil {
				return err
			}
			target := filepath.Join(workDir, filepath.FromSlash(tc.Path))
			ctxlog.FromContext(cmd.Context()).Info("Removing work directory", "path", target)
			return os.RemoveAll(target)
		},
	}

	cmd.Flags().StringVarP(&casePath, "test", "t", "", "Test case path, <core>/<test-group>/<subdir>")
	cmd.Flags().StringVarP(&workDir, "work-dir", "w", ".", "Base work directory")
	return cmd
}
