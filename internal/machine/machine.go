// Package machine resolves the compute resources actually available to a
// test case from its machine profile.
//
// A machine profile is an HCL config layer describing the execution
// environment, chiefly the parallel section:
//
//	parallel {
//	  system         = "slurm"
//	  cores_per_node = 36
//	}
//
// Profiles for known machines are embedded in the binary; unknown machines
// fall back to the single-node default. A profile may ship a companion .env
// file whose variables are loaded into the process before resolution, so a
// profile can pin batch-system settings for interactive use.
package machine

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mpas-dev/compass/internal/config"
)

//go:embed profiles/*.cfg
var profiles embed.FS

// Default is the machine profile used when none is named.
const Default = "default"

// slurmEnv captures the batch allocation description SLURM injects into
// jobs. Values stay strings here because batch prologs sometimes export the
// variables empty; emptiness is handled explicitly below.
type slurmEnv struct {
	JobNumNodes string `env:"SLURM_JOB_NUM_NODES"`
	NTasks      string `env:"SLURM_NTASKS"`
}

// LoadProfile returns the embedded config layer for the named machine.
func LoadProfile(name string) (*config.Config, error) {
	if name == "" {
		name = Default
	}
	src, err := profiles.ReadFile("profiles/" + name + ".cfg")
	if err != nil {
		return nil, fmt.Errorf("unknown machine %q: %w", name, err)
	}
	cfg, err := config.LoadSource(name+".cfg", src)
	if err != nil {
		return nil, err
	}
	cfg.SetString("machine", "name", name)
	return cfg, nil
}

// ProfileNames lists the machine profiles embedded in the binary.
func ProfileNames() []string {
	entries, err := profiles.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		names = append(names, name[:len(name)-len(filepath.Ext(name))])
	}
	return names
}

// LoadProfileFile reads a machine profile from a file on disk, with an
// optional sibling .env file applied to the process environment first.
func LoadProfileFile(path string) (*config.Config, error) {
	envPath := path[:len(path)-len(filepath.Ext(path))] + ".env"
	// Missing .env siblings are fine; only report real load failures.
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	cfg.SetString("machine", "name", name[:len(name)-len(filepath.Ext(name))])
	return cfg, nil
}

// AvailableCoresAndNodes reports how many cores and nodes the current
// allocation provides, per the parallel section of the given config. It is a
// pure query: callers must treat the result as authoritative even when it is
// below what a step requested.
func AvailableCoresAndNodes(cfg *config.Config) (cores, nodes int, err error) {
	system, err := cfg.GetString("parallel", "system")
	if err != nil {
		return 0, 0, err
	}

	switch system {
	case "single_node":
		coresPerNode, err := cfg.GetInt("parallel", "cores_per_node")
		if err != nil {
			return 0, 0, err
		}
		cores = min(coresPerNode, runtime.NumCPU())
		return cores, 1, nil

	case "slurm":
		var alloc slurmEnv
		if err := env.Parse(&alloc); err != nil {
			return 0, 0, fmt.Errorf("reading SLURM environment: %w", err)
		}
		if alloc.JobNumNodes == "" {
			return 0, 0, fmt.Errorf(
				"SLURM_JOB_NUM_NODES is not set; are you inside a batch job or interactive allocation?")
		}
		nodes, err := strconv.Atoi(alloc.JobNumNodes)
		if err != nil || nodes <= 0 {
			return 0, 0, fmt.Errorf("invalid SLURM_JOB_NUM_NODES %q", alloc.JobNumNodes)
		}
		coresPerNode, err := cfg.GetInt("parallel", "cores_per_node")
		if err != nil {
			return 0, 0, err
		}
		return nodes * coresPerNode, nodes, nil

	default:
		return 0, 0, fmt.Errorf("unexpected parallel system: %q", system)
	}
}
