package testgroup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpas-dev/compass/internal/testcase"
)

func TestAdd_SetsBackReferencesAndPath(t *testing.T) {
	g := New("mismipplus")
	g.CoreName = "landice"

	tc := testcase.New("smoke_test", "")
	require.NoError(t, g.Add(tc))

	require.Equal(t, "mismipplus", tc.GroupName)
	require.Equal(t, "landice", tc.CoreName)
	require.Equal(t, "landice/mismipplus/smoke_test", tc.Path)
}

func TestAdd_DuplicateSubdirRejected(t *testing.T) {
	g := New("mismipplus")
	require.NoError(t, g.Add(testcase.New("smoke_test", "2km")))

	err := g.Add(testcase.New("full_run", "2km"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "2km")
	require.Len(t, g.Cases(), 1)
}

func TestCases_PreservesRegistrationOrder(t *testing.T) {
	g := New("mismipplus")
	require.NoError(t, g.Add(testcase.New("smoke_test", "")))
	require.NoError(t, g.Add(testcase.New("full_run", "")))
	require.NoError(t, g.Add(testcase.New("restart_test", "")))

	var subdirs []string
	for _, tc := range g.Cases() {
		subdirs = append(subdirs, tc.Subdir)
	}
	require.Equal(t, []string{"smoke_test", "full_run", "restart_test"}, subdirs)

	require.Equal(t, "full_run", g.Case("full_run").Name)
	require.Nil(t, g.Case("missing"))
}
