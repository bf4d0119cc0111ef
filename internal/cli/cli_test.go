package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/suite"
)

// execute runs the CLI against a fresh default suite and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &Options{Suite: suite.Default()}
	cmd := newRootCommand(opts)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--log-format", "text"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestList_ShowsTestCases(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Test cases:")
	require.Contains(t, out, "landice/mismipplus/smoke_test")
}

func TestList_MachinesFlag(t *testing.T) {
	out, err := execute(t, "list", "--machines")
	require.NoError(t, err)
	require.Contains(t, out, "Machine profiles:")
	require.Contains(t, out, "default")
	require.Contains(t, out, "anvil")
	require.Contains(t, out, "chrysalis")
	require.NotContains(t, out, "Test cases:")
}

func TestSetup_RequiresTestCase(t *testing.T) {
	_, err := execute(t, "setup")
	require.Error(t, err)
	require.Contains(t, err.Error(), "compass list")
}

func TestSetup_UnknownTestCase(t *testing.T) {
	_, err := execute(t, "setup", "-t", "landice/mismipplus/nope", "-w", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown test case")
}

func TestSetup_CreatesWorkTree(t *testing.T) {
	base := t.TempDir()

	_, err := execute(t, "setup", "-t", "landice/mismipplus/smoke_test", "-w", base)
	require.NoError(t, err)

	caseDir := filepath.Join(base, "landice", "mismipplus", "smoke_test")
	require.FileExists(t, filepath.Join(caseDir, "case.cfg"))
	require.FileExists(t, filepath.Join(caseDir, "run"))
	require.DirExists(t, filepath.Join(caseDir, "setup_mesh"))

	cfg, err := config.LoadFile(filepath.Join(caseDir, "case.cfg"))
	require.NoError(t, err)
	coreName, err := cfg.GetString("test_case", "core")
	require.NoError(t, err)
	require.Equal(t, "landice", coreName)
	// The default machine profile and the group defaults both made it into
	// the merged config.
	system, err := cfg.GetString("parallel", "system")
	require.NoError(t, err)
	require.Equal(t, "single_node", system)
	levels, err := cfg.GetInt("mismipplus", "levels")
	require.NoError(t, err)
	require.Equal(t, 10, levels)
}

func TestSetup_UserConfigOverridesDefaults(t *testing.T) {
	base := t.TempDir()
	userFile := filepath.Join(base, "user.cfg")
	require.NoError(t, os.WriteFile(userFile, []byte(`
mismipplus {
  levels = 3
}
`), 0o644))

	_, err := execute(t, "setup", "-t", "landice/mismipplus/smoke_test", "-w", base, "-f", userFile)
	require.NoError(t, err)

	cfg, err := config.LoadFile(filepath.Join(base, "landice", "mismipplus", "smoke_test", "case.cfg"))
	require.NoError(t, err)
	levels, err := cfg.GetInt("mismipplus", "levels")
	require.NoError(t, err)
	require.Equal(t, 3, levels)
}

func TestRun_RejectsConfigWithoutCaseIdentity(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "case.cfg")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
parallel {
  system = "single_node"
}
`), 0o644))

	_, err := execute(t, "run", "--config", cfgFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not describe a set-up test case")
}

func TestClean_RemovesWorkTree(t *testing.T) {
	base := t.TempDir()
	_, err := execute(t, "setup", "-t", "landice/mismipplus/smoke_test", "-w", base)
	require.NoError(t, err)
	caseDir := filepath.Join(base, "landice", "mismipplus", "smoke_test")
	require.DirExists(t, caseDir)

	_, err = execute(t, "clean", "-t", "landice/mismipplus/smoke_test", "-w", base)
	require.NoError(t, err)
	require.NoDirExists(t, caseDir)
}
