// Package step defines the unit of work sequenced by a test case: a named
// step with declared input and output files, a resource request, and a
// Runner supplying its behavior.
package step

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mpas-dev/compass/internal/config"
)

// Runner supplies a step's behavior. Run executes inside the step's working
// directory contract: all side effects are expected to stay under
// s.WorkDir and to produce exactly the files listed in s.Outputs.
type Runner interface {
	Run(ctx context.Context, s *Step) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, s *Step) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, s *Step) error {
	return f(ctx, s)
}

// Setuper is an optional capability for runners that need to prepare the
// step's working directory (download inputs, resolve declared output paths)
// at setup time, before any run.
type Setuper interface {
	Setup(ctx context.Context, s *Step) error
}

// Owner is the non-owning back-reference from a step to its test case, used
// for error messages and config propagation only.
type Owner interface {
	// CaseName returns the owning test case's name.
	CaseName() string
	// FullPath returns the fully-qualified location of the owning test case,
	// formatted as <core>/<test-group>/<test-case-subdir>.
	FullPath() string
}

// Step is one unit of orchestrated work within a test case.
//
// Inputs and Outputs hold absolute paths once setup has completed; the
// orchestrator checks Inputs before Run and Outputs after it. Cores is the
// requested core count and is clamped to what the machine actually provides
// before Run; MinCores, when positive, is a hard floor on the clamped value.
type Step struct {
	Name   string
	Subdir string
	// Path is the step's location relative to the base work directory,
	// <core>/<group>/<case-subdir>/<step-subdir>.
	Path string
	// WorkDir is the absolute directory the step executes in. It is threaded
	// to the Runner explicitly; runners must not rely on the process working
	// directory.
	WorkDir string

	Inputs  []string
	Outputs []string

	Cores    int
	MinCores int
	Threads  int
	// MaxMemory and MaxDisk are advisory, in MB.
	MaxMemory int
	MaxDisk   int

	// Fields set by the orchestrator at run time.
	Logger      *slog.Logger
	LogFilename string
	Config      *config.Config

	// TestCase is set by TestCase.AddStep.
	TestCase Owner

	Runner Runner
}

// New returns a step with the given name and runner, a subdir defaulting to
// the name, and a single-core single-thread resource request.
func New(name string, runner Runner) *Step {
	return &Step{
		Name:    name,
		Subdir:  name,
		Cores:   1,
		Threads: 1,
		Runner:  runner,
	}
}

// AddInput declares an input file. Relative names are resolved against the
// step's working directory at setup time by ResolvePaths.
func (s *Step) AddInput(name string) {
	s.Inputs = append(s.Inputs, name)
}

// AddOutput declares an output file, resolved like AddInput.
func (s *Step) AddOutput(name string) {
	s.Outputs = append(s.Outputs, name)
}

// ResolvePaths rewrites relative input and output entries to absolute paths
// under the step's working directory. Absolute entries are left alone. Called
// during setup, after WorkDir is known.
func (s *Step) ResolvePaths() {
	for i, in := range s.Inputs {
		if !filepath.IsAbs(in) {
			s.Inputs[i] = filepath.Join(s.WorkDir, in)
		}
	}
	for i, out := range s.Outputs {
		if !filepath.IsAbs(out) {
			s.Outputs[i] = filepath.Join(s.WorkDir, out)
		}
	}
}
