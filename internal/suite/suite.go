// Package suite holds the collection of model cores the compass CLI
// operates on and resolves test cases by their path.
package suite

import (
	"fmt"
	"strings"

	"github.com/mpas-dev/compass/internal/core"
	"github.com/mpas-dev/compass/internal/landice"
	"github.com/mpas-dev/compass/internal/testcase"
	"github.com/mpas-dev/compass/internal/testgroup"
)

// Suite is an ordered collection of model cores.
type Suite struct {
	cores  []*core.Core
	byName map[string]*core.Core
}

// New builds a suite from the given cores.
func New(cores ...*core.Core) *Suite {
	s := &Suite{byName: make(map[string]*core.Core)}
	for _, c := range cores {
		s.cores = append(s.cores, c)
		s.byName[c.Name] = c
	}
	return s
}

// Default returns the suite of cores built into the compass binary.
func Default() *Suite {
	return New(landice.NewCore())
}

// Cores returns the suite's cores in registration order.
func (s *Suite) Cores() []*core.Core {
	return append([]*core.Core(nil), s.cores...)
}

// Cases returns every test case in the suite, ordered by core, group, then
// registration.
func (s *Suite) Cases() []*testcase.TestCase {
	var out []*testcase.TestCase
	for _, c := range s.cores {
		for _, g := range c.Groups() {
			out = append(out, g.Cases()...)
		}
	}
	return out
}

// Find resolves a test case path of the form <core>/<group>/<subdir>, where
// the subdir may itself contain slashes.
func (s *Suite) Find(casePath string) (*core.Core, *testgroup.Group, *testcase.TestCase, error) {
	parts := strings.SplitN(strings.Trim(casePath, "/"), "/", 3)
	if len(parts) != 3 {
		return nil, nil, nil, fmt.Errorf(
			"test case path %q must look like <core>/<test-group>/<subdir>", casePath)
	}
	c, ok := s.byName[parts[0]]
	if !ok {
		return nil, nil, nil, fmt.Errorf("unknown model core %q", parts[0])
	}
	g := c.Group(parts[1])
	if g == nil {
		return nil, nil, nil, fmt.Errorf("unknown test group %q in core %s", parts[1], c.Name)
	}
	tc := g.Case(parts[2])
	if tc == nil {
		return nil, nil, nil, fmt.Errorf("unknown test case %q in %s/%s", parts[2], c.Name, g.Name)
	}
	return c, g, tc, nil
}
