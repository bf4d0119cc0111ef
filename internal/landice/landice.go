// Package landice assembles the MPAS-Albany land-ice model core.
package landice

import (
	"github.com/mpas-dev/compass/internal/core"
	"github.com/mpas-dev/compass/internal/landice/mismipplus"
)

// NewCore builds the landice core with its test groups.
func NewCore() *core.Core {
	c := core.New("landice")
	if err := c.Add(mismipplus.NewGroup()); err != nil {
		panic(err)
	}
	return c
}
