package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ascigo/internal/core"
)

// Config is the run configuration. It is read from a YAML file and then
// overridden by any flag set on the command line.
type Config struct {
	Norb        int     `yaml:"norb"`
	NAlpha      int     `yaml:"nalpha"`
	NBeta       int     `yaml:"nbeta"`
	Ranks       int     `yaml:"ranks"`
	Policy      string  `yaml:"policy"`
	SplitFactor float64 `yaml:"split_factor"`
	Seed        uint64  `yaml:"seed"`
	Threads     int     `yaml:"threads"`
	DetsFile    string  `yaml:"dets_file"`
	NumDets     int     `yaml:"num_dets"`
	Tolerance   float64 `yaml:"tolerance"`
	Top         int     `yaml:"top"`
	PlanOut     string  `yaml:"plan_out"`
	MetricsAddr string  `yaml:"metrics_addr"`
	Progress    bool    `yaml:"progress"`
	Verbose     bool    `yaml:"verbose"`
}

func defaultConfig() Config {
	d := core.DefaultDistConfig()
	return Config{
		Norb:        16,
		NAlpha:      5,
		NBeta:       5,
		Ranks:       4,
		Policy:      d.Policy.String(),
		SplitFactor: d.SplitFactor,
		Seed:        d.Seed,
		Threads:     d.NumThreads,
		NumDets:     1000,
		Tolerance:   1e-8,
		Top:         10,
	}
}

// loadConfig overlays the YAML file at path onto cfg. Unknown keys are
// rejected.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func bindFlags(cmd *cobra.Command, cfg *Config) {
	f := cmd.PersistentFlags()
	f.IntVar(&cfg.Norb, "norb", cfg.Norb, "active orbitals per spin channel (1-64)")
	f.IntVar(&cfg.NAlpha, "nalpha", cfg.NAlpha, "alpha electrons")
	f.IntVar(&cfg.NBeta, "nbeta", cfg.NBeta, "beta electrons")
	f.IntVar(&cfg.Ranks, "ranks", cfg.Ranks, "size of the simulated process group")
	f.StringVar(&cfg.Policy, "policy", cfg.Policy, "distribution policy: histogram, histogram34 or random")
	f.Float64Var(&cfg.SplitFactor, "split-factor", cfg.SplitFactor, "fraction of the even share above which triplets are split")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for shuffling and determinant sampling (0 picks one)")
	f.IntVar(&cfg.Threads, "threads", cfg.Threads, "goroutines for the cost scan")
	f.StringVar(&cfg.DetsFile, "dets", cfg.DetsFile, "determinant file; sampled at random when empty")
	f.IntVar(&cfg.NumDets, "num-dets", cfg.NumDets, "determinants to sample when no file is given")
	f.Float64Var(&cfg.Tolerance, "tol", cfg.Tolerance, "drop contributions with |c*h| below this")
	f.IntVar(&cfg.Top, "top", cfg.Top, "largest contributions to print")
	f.StringVar(&cfg.PlanOut, "plan-out", cfg.PlanOut, "write the plan to this file")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address until interrupted")
	f.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar for the cost scan")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose logging")
}

// resolveConfig returns the flag values in cfg, with values from the file at
// path filling every flag that was not set explicitly.
func resolveConfig(cmd *cobra.Command, path string, flags Config) (Config, error) {
	if path == "" {
		return flags, nil
	}
	cfg := defaultConfig()
	if err := loadConfig(path, &cfg); err != nil {
		return Config{}, err
	}
	changed := cmd.Flags().Changed
	overrides := []struct {
		name  string
		apply func()
	}{
		{"norb", func() { cfg.Norb = flags.Norb }},
		{"nalpha", func() { cfg.NAlpha = flags.NAlpha }},
		{"nbeta", func() { cfg.NBeta = flags.NBeta }},
		{"ranks", func() { cfg.Ranks = flags.Ranks }},
		{"policy", func() { cfg.Policy = flags.Policy }},
		{"split-factor", func() { cfg.SplitFactor = flags.SplitFactor }},
		{"seed", func() { cfg.Seed = flags.Seed }},
		{"threads", func() { cfg.Threads = flags.Threads }},
		{"dets", func() { cfg.DetsFile = flags.DetsFile }},
		{"num-dets", func() { cfg.NumDets = flags.NumDets }},
		{"tol", func() { cfg.Tolerance = flags.Tolerance }},
		{"top", func() { cfg.Top = flags.Top }},
		{"plan-out", func() { cfg.PlanOut = flags.PlanOut }},
		{"metrics-addr", func() { cfg.MetricsAddr = flags.MetricsAddr }},
		{"progress", func() { cfg.Progress = flags.Progress }},
		{"verbose", func() { cfg.Verbose = flags.Verbose }},
	}
	for _, o := range overrides {
		if changed(o.name) {
			o.apply()
		}
	}
	return cfg, nil
}

// distConfig converts the run configuration for the distributor.
func (c Config) distConfig() (core.DistConfig, error) {
	policy, err := core.ParsePolicy(c.Policy)
	if err != nil {
		return core.DistConfig{}, err
	}
	d := core.DefaultDistConfig()
	d.Policy = policy
	d.SplitFactor = c.SplitFactor
	d.Seed = c.Seed
	d.NumThreads = c.Threads
	d.Verbose = c.Verbose
	if err := d.Validate(); err != nil {
		return core.DistConfig{}, err
	}
	if c.Ranks < 1 {
		return core.DistConfig{}, fmt.Errorf("ranks must be at least 1, got %d", c.Ranks)
	}
	return d, nil
}
