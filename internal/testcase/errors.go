package testcase

import (
	"fmt"
	"strings"
)

// DuplicateStepError reports an AddStep call with a name already registered
// on the test case.
type DuplicateStepError struct {
	Step     string
	TestCase string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step %s is already registered in test case %s", e.Step, e.TestCase)
}

// ResourceError reports that the cores available to a step, after clamping
// to the machine allocation, fell below the step's declared minimum. It is
// fatal for the run and never retried.
type ResourceError struct {
	Step     string
	Cores    int
	MinCores int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("available cores for step %s is %d, below the minimum of %d",
		e.Step, e.Cores, e.MinCores)
}

// MissingFilesError reports declared step files that do not exist: inputs
// checked before the step runs (Kind "input") or outputs checked after it
// completes (Kind "output").
//
// The message format is load-bearing: existing log-scraping tooling matches
//
//	<kind> file(s) missing in step <step> of <core>/<group>/<subdir>: <list>
type MissingFilesError struct {
	Kind  string
	Step  string
	Core  string
	Group string
	Sub   string
	Files []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%s file(s) missing in step %s of %s/%s/%s: %s",
		e.Kind, e.Step, e.Core, e.Group, e.Sub, strings.Join(e.Files, ", "))
}
