// Package mismipplus is a test group for MISMIP+ test cases. The group uses
// a pre-made 2 km mesh fetched from the MPAS standalone-data server.
package mismipplus

import (
	"github.com/mpas-dev/compass/internal/config"
	"github.com/mpas-dev/compass/internal/steps/fetch"
	"github.com/mpas-dev/compass/internal/testcase"
	"github.com/mpas-dev/compass/internal/testgroup"
)

const meshURL = "https://web.lcrc.anl.gov/public/e3sm/mpas_standalonedata/mpas-albany-landice/mismip%2B/MISMIP_2km_20220502.nc"

const defaultConfig = `
mismipplus {
  # Number of vertical levels in the pre-made mesh.
  levels = 10
}
`

// NewGroup builds the mismipplus test group.
func NewGroup() *testgroup.Group {
	g := testgroup.New("mismipplus")
	g.DefaultConfig = defaultConfig
	if err := g.Add(newSmokeTest()); err != nil {
		panic(err)
	}
	return g
}

// newSmokeTest builds a short smoke test: fetch the pre-made mesh into the
// work directory. Forward model execution is attached by the run_model
// tooling outside this repository.
func newSmokeTest() *testcase.TestCase {
	tc := testcase.New("smoke_test", "")
	tc.ConfigureFn = func(tc *testcase.TestCase, cfg *config.Config) error {
		cfg.SetString("mismipplus", "mesh_url", meshURL)
		return nil
	}
	if err := tc.AddStep(fetch.New("setup_mesh", []string{meshURL}), true); err != nil {
		panic(err)
	}
	return tc
}
