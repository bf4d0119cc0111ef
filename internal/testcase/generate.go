package testcase

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// runScript is the launcher rendered into each test case's work directory.
// Its contract has exactly two substitution fields: the test case name and
// the merged config filename. Running it from the work directory re-invokes
// the same test case and exits non-zero on failure, mirroring Run.
const runScript = `#!/usr/bin/env bash
# Launcher for the {{.Name}} test case. Generated; do not edit.
set -e

compass run --config {{.ConfigFilename}} "$@"
`

var runTemplate = template.Must(template.New("run").Parse(runScript))

// Generate renders the standalone launcher script into the test case's work
// directory and marks it executable. It creates or overwrites only that one
// file; nothing else in the work directory is touched.
func (tc *TestCase) Generate() error {
	configFilename := "case.cfg"
	if tc.ConfigFilename != "" {
		configFilename = filepath.Base(tc.ConfigFilename)
	}
	data := struct {
		Name           string
		ConfigFilename string
	}{
		Name:           tc.Name,
		ConfigFilename: configFilename,
	}

	var buf bytes.Buffer
	if err := runTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering run script for %s: %w", tc.Name, err)
	}

	scriptPath := filepath.Join(tc.WorkDir, "run")
	if err := os.WriteFile(scriptPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing run script for %s: %w", tc.Name, err)
	}

	info, err := os.Stat(scriptPath)
	if err != nil {
		return err
	}
	return os.Chmod(scriptPath, info.Mode()|0o111)
}
