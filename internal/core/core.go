// Package core models a dynamical core of the MPAS framework (ocean,
// landice, ...) as a named collection of test groups.
package core

import (
	"fmt"
	"path"

	"github.com/mpas-dev/compass/internal/testgroup"
)

// Core is a model core owning an ordered set of test groups.
type Core struct {
	Name string

	// DefaultConfig is an optional HCL config layer merged below test-group
	// and test-case layers at setup time.
	DefaultConfig string

	groups map[string]*testgroup.Group
	order  []string
}

// New creates an empty model core.
func New(name string) *Core {
	return &Core{
		Name:   name,
		groups: make(map[string]*testgroup.Group),
	}
}

// Add registers a test group and rewrites the back-references and paths of
// the cases it already holds.
func (c *Core) Add(g *testgroup.Group) error {
	if _, exists := c.groups[g.Name]; exists {
		return fmt.Errorf("test group %s already exists in core %s", g.Name, c.Name)
	}
	c.groups[g.Name] = g
	c.order = append(c.order, g.Name)
	g.CoreName = c.Name
	for _, tc := range g.Cases() {
		tc.CoreName = c.Name
		tc.Path = path.Join(c.Name, g.Name, tc.Subdir)
	}
	return nil
}

// Groups returns the core's test groups in registration order.
func (c *Core) Groups() []*testgroup.Group {
	out := make([]*testgroup.Group, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.groups[name])
	}
	return out
}

// Group returns a test group by name, or nil.
func (c *Core) Group(name string) *testgroup.Group {
	return c.groups[name]
}
