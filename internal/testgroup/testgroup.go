// Package testgroup groups related test cases under a model core, the way
// e.g. all SOMA ocean cases or all MISMIP+ land-ice cases belong together.
package testgroup

import (
	"fmt"
	"path"

	"github.com/mpas-dev/compass/internal/testcase"
)

// Group is an ordered collection of test cases belonging to one model core.
type Group struct {
	Name string
	// CoreName identifies the owning model core; set when the group is added
	// to a core.
	CoreName string

	// DefaultConfig is an optional HCL config layer merged below each test
	// case's own overrides at setup time.
	DefaultConfig string

	cases map[string]*testcase.TestCase
	order []string
}

// New creates an empty test group.
func New(name string) *Group {
	return &Group{
		Name:  name,
		cases: make(map[string]*testcase.TestCase),
	}
}

// Add registers a test case, sets its back-references and its path within
// the work tree. Subdirs must be unique within the group.
func (g *Group) Add(tc *testcase.TestCase) error {
	if _, exists := g.cases[tc.Subdir]; exists {
		return fmt.Errorf("test case %s already exists in group %s", tc.Subdir, g.Name)
	}
	g.cases[tc.Subdir] = tc
	g.order = append(g.order, tc.Subdir)
	tc.GroupName = g.Name
	tc.CoreName = g.CoreName
	tc.Path = path.Join(g.CoreName, g.Name, tc.Subdir)
	return nil
}

// Cases returns the group's test cases in registration order.
func (g *Group) Cases() []*testcase.TestCase {
	out := make([]*testcase.TestCase, 0, len(g.order))
	for _, subdir := range g.order {
		out = append(out, g.cases[subdir])
	}
	return out
}

// Case returns a test case by subdir, or nil.
func (g *Group) Case(subdir string) *testcase.TestCase {
	return g.cases[subdir]
}
