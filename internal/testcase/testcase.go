// Package testcase implements the orchestration core: an ordered registry of
// steps executed serially with config propagation, per-step logging contexts,
// resource clamping and input/output validation.
package testcase

import (
	"log/slog"
	"path"

	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/step"
)

// TestCase is an ordered collection of steps representing one reproducible
// experiment configuration. It is owned by exactly one test group.
type TestCase struct {
	Name string
	// Subdir is the test case's directory within its test group. Defaults to
	// Name.
	Subdir string
	// Path is <core>/<group>/<subdir>, set when the case is added to a group.
	Path string

	// CoreName and GroupName identify the owning model core and test group.
	// Set when the case is added to a group.
	CoreName  string
	GroupName string

	// Steps maps step names to steps; StepsToRun holds the names to execute,
	// in registration order, excluding steps added with runByDefault=false.
	Steps      map[string]*step.Step
	StepsToRun []string
	stepOrder  []string

	// Config is the merged configuration: machine defaults, core defaults,
	// test-group defaults, then overrides applied by Configure.
	Config *config.Config
	// ConfigFilename is where the merged config was written at setup time.
	ConfigFilename string

	Logger      *slog.Logger
	LogFilename string
	// NewStepLogFile controls whether each step gets its own log file. When
	// false, steps log through the test case's logger and inherit LogFilename.
	NewStepLogFile bool

	WorkDir     string
	BaseWorkDir string

	// ConfigureFn, when set, injects test-case-specific config options. It
	// must be idempotent: applying it twice to the same base config must
	// yield the same result as applying it once.
	ConfigureFn func(tc *TestCase, cfg *config.Config) error
	// ValidateFn, when set, checks the case's products after a run, typically
	// by comparing variables against reference output.
	ValidateFn func(tc *TestCase) error
}

// New creates a test case. An empty subdir defaults to the name.
func New(name, subdir string) *TestCase {
	if subdir == "" {
		subdir = name
	}
	return &TestCase{
		Name:           name,
		Subdir:         subdir,
		Steps:          make(map[string]*step.Step),
		NewStepLogFile: true,
	}
}

// CaseName implements step.Owner.
func (tc *TestCase) CaseName() string {
	return tc.Name
}

// FullPath implements step.Owner, returning <core>/<group>/<subdir>.
func (tc *TestCase) FullPath() string {
	return path.Join(tc.CoreName, tc.GroupName, tc.Subdir)
}

// AddStep registers a step under its name and sets the back-reference. The
// step joins the default run order unless runByDefault is false, in which
// case it can only be run by an explicit step selection. Duplicate names are
// rejected: silently overwriting the registry while growing the run list
// would leave two run-list entries pointing at one step.
func (tc *TestCase) AddStep(s *step.Step, runByDefault bool) error {
	if _, exists := tc.Steps[s.Name]; exists {
		return &DuplicateStepError{Step: s.Name, TestCase: tc.Name}
	}
	tc.Steps[s.Name] = s
	tc.stepOrder = append(tc.stepOrder, s.Name)
	s.TestCase = tc
	if runByDefault {
		tc.StepsToRun = append(tc.StepsToRun, s.Name)
	}
	return nil
}

// AllSteps returns every registered step in registration order, including
// those excluded from the default run list.
func (tc *TestCase) AllSteps() []*step.Step {
	out := make([]*step.Step, 0, len(tc.stepOrder))
	for _, name := range tc.stepOrder {
		out = append(out, tc.Steps[name])
	}
	return out
}

// Configure finalizes the test case's configuration by applying ConfigureFn,
// if any, to cfg. Passing nil applies it to the case's current config. Safe
// to call more than once with the same base config.
func (tc *TestCase) Configure(cfg *config.Config) error {
	if cfg == nil {
		cfg = tc.Config
	} else {
		tc.Config = cfg
	}
	if tc.ConfigureFn == nil {
		return nil
	}
	return tc.ConfigureFn(tc, cfg)
}

// Validate applies ValidateFn, if any.
func (tc *TestCase) Validate() error {
	if tc.ValidateFn == nil {
		return nil
	}
	return tc.ValidateFn(tc)
}
