package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpas-dev/compass/internal/testcase"
	"github.com/mpas-dev/compass/internal/testgroup"
)

func TestAdd_RewritesExistingCasePaths(t *testing.T) {
	g := testgroup.New("mismipplus")
	tc := testcase.New("smoke_test", "")
	require.NoError(t, g.Add(tc))
	// Added to a group before the group has a core, the path has no core
	// component yet.
	require.Equal(t, "mismipplus/smoke_test", tc.Path)

	c := New("landice")
	require.NoError(t, c.Add(g))
	require.Equal(t, "landice", g.CoreName)
	require.Equal(t, "landice", tc.CoreName)
	require.Equal(t, "landice/mismipplus/smoke_test", tc.Path)
}

func TestAdd_DuplicateGroupRejected(t *testing.T) {
	c := New("landice")
	require.NoError(t, c.Add(testgroup.New("mismipplus")))

	err := c.Add(testgroup.New("mismipplus"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "mismipplus")
	require.Len(t, c.Groups(), 1)
}

func TestGroups_PreservesRegistrationOrder(t *testing.T) {
	c := New("landice")
	require.NoError(t, c.Add(testgroup.New("mismipplus")))
	require.NoError(t, c.Add(testgroup.New("dome")))

	var names []string
	for _, g := range c.Groups() {
		names = append(names, g.Name)
	}
	require.Equal(t, []string{"mismipplus", "dome"}, names)

	require.NotNil(t, c.Group("dome"))
	require.Nil(t, c.Group("missing"))
}
