package step

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New("forward", RunnerFunc(func(context.Context, *Step) error { return nil }))
	require.Equal(t, "forward", s.Name)
	require.Equal(t, "forward", s.Subdir)
	require.Equal(t, 1, s.Cores)
	require.Equal(t, 1, s.Threads)
	require.Zero(t, s.MinCores)
}

func TestResolvePaths(t *testing.T) {
	s := New("forward", nil)
	s.WorkDir = filepath.Join(string(filepath.Separator), "work", "forward")
	abs := filepath.Join(string(filepath.Separator), "shared", "mesh.nc")
	s.AddInput("namelist.landice")
	s.AddInput(abs)
	s.AddOutput("output.nc")

	s.ResolvePaths()

	require.Equal(t, []string{
		filepath.Join(s.WorkDir, "namelist.landice"),
		abs,
	}, s.Inputs)
	require.Equal(t, []string{filepath.Join(s.WorkDir, "output.nc")}, s.Outputs)

	// Already-resolved paths are stable under a second call.
	s.ResolvePaths()
	require.Equal(t, []string{filepath.Join(s.WorkDir, "namelist.landice"), abs}, s.Inputs)
}

func TestRunnerFunc(t *testing.T) {
	called := false
	r := RunnerFunc(func(_ context.Context, s *Step) error {
		called = true
		require.Equal(t, "forward", s.Name)
		return nil
	})
	s := New("forward", r)
	require.NoError(t, s.Runner.Run(context.Background(), s))
	require.True(t, called)
}
