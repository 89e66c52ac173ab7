package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ascigo/internal/contrib"
	"ascigo/internal/core"
	"ascigo/internal/dist"
	"ascigo/internal/metrics"
	"ascigo/internal/serial"
	"ascigo/internal/util"
	"ascigo/pkg/asci"
)

func newRootCmd() *cobra.Command {
	flags := defaultConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "ascidist",
		Short:        "Distribute and run constrained ASCI determinant searches",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	bindFlags(rootCmd, &flags)

	resolve := func(cmd *cobra.Command) (Config, error) {
		cfg, err := resolveConfig(cmd, configPath, flags)
		if err != nil {
			return Config{}, err
		}
		if cfg.Seed == 0 {
			cfg.Seed = util.RandomSeed()
			util.Log(cfg.Verbose, "using seed %d", cfg.Seed)
		}
		return cfg, nil
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Cost the constraints and print the per-rank load balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd)
			if err != nil {
				return err
			}
			return runPlan(cmd, cfg)
		},
	}
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Distribute, then generate every rank's contributions on a synthetic Hamiltonian",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd, cfg)
		},
	}
	verifyCmd := &cobra.Command{
		Use:   "verify <plan-file>",
		Short: "Check that a saved plan assigns every constraint exactly once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p dist.Plan
			if err := serial.Load(args[0], &p); err != nil {
				return err
			}
			if err := dist.VerifyCoverage(&p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Summary())
			fmt.Fprintln(cmd.OutOrStdout(), "coverage ok")
			return nil
		},
	}
	rootCmd.AddCommand(planCmd, searchCmd, verifyCmd)
	return rootCmd
}

// distribute builds the workload and the plan shared by all ranks.
func distribute(cmd *cobra.Command, cfg Config) (*asci.Workload, *dist.Plan, []core.Det, []float64, error) {
	dcfg, err := cfg.distConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	dets, coeffs, err := loadDets(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	w, err := asci.NewWorkload(cfg.Norb, cfg.NAlpha, cfg.NBeta, dets)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	util.Log(cfg.Verbose, "%d determinants, %d distinct alpha and %d distinct beta strings, %d ranks, policy %s",
		len(dets), len(w.Strings), len(util.DistinctBeta(dets)), cfg.Ranks, dcfg.Policy)

	if cfg.Progress {
		bar := progressbar.NewOptions64(int64(cfg.Norb),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("costing triplets"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		dcfg.Progress = func(done, total uint64) { _ = bar.Add(1) }
	}

	// Every rank would compute this same plan; rank 0 stands in for all.
	p, _, err := w.Distribute(dist.LocalComm{R: 0, N: cfg.Ranks}, dcfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := dist.VerifyCoverage(p); err != nil {
		return nil, nil, nil, nil, err
	}
	if cfg.PlanOut != "" {
		if err := serial.Save(cfg.PlanOut, p); err != nil {
			return nil, nil, nil, nil, err
		}
		util.Log(cfg.Verbose, "plan written to %s", cfg.PlanOut)
	}
	return w, p, dets, coeffs, nil
}

func runPlan(cmd *cobra.Command, cfg Config) error {
	_, p, _, _, err := distribute(cmd, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, p.Summary())
	fmt.Fprintf(out, "timings: scan=%v split=%v assign=%v\n", p.Timings.Scan, p.Timings.Split, p.Timings.Assign)

	rec := metrics.NewRecorder("asci")
	rec.ObservePlan(p)
	return serveMetrics(cmd.Context(), cfg.MetricsAddr, rec, out)
}

func runSearch(cmd *cobra.Command, cfg Config) error {
	_, p, dets, coeffs, err := distribute(cmd, cfg)
	if err != nil {
		return err
	}
	h, err := asci.SyntheticHamiltonian(cfg.Norb, cfg.NAlpha, cfg.NBeta, cfg.Seed)
	if err != nil {
		return err
	}
	s, err := asci.NewSearcher(h, cfg.Tolerance)
	if err != nil {
		return err
	}
	s.Verbose = cfg.Verbose
	rec := metrics.NewRecorder("asci")
	rec.ObservePlan(p)
	s.Observe = func(c asci.Class, n int) { rec.AddContributions(c.String(), n) }

	wfn := wavefunction(h, dets, coeffs)
	out := cmd.OutOrStdout()
	// Contributions move to the rank owning their determinant before they
	// are accumulated.
	owned := make([]*contrib.Buffer, p.Size)
	for r := range owned {
		owned[r] = contrib.NewBuffer(0)
	}
	var total asci.SearchStats
	for r := 0; r < p.Size; r++ {
		a, err := p.Assignment(r)
		if err != nil {
			return err
		}
		buf := contrib.NewBuffer(0)
		st := s.Search(a, wfn, buf)
		rec.AddDeterminants(len(wfn))
		total.Add(st)
		fmt.Fprintf(out, "[rank %2d] constraints=%d estimated=%d generated=%d (%.2fs)\n",
			r, len(a.Units), a.Load, st.Total(), st.Elapsed.Seconds())
		buf.Shard(owned, cfg.Seed)
	}

	merged := contrib.NewBuffer(0)
	for r, b := range owned {
		b.Accumulate()
		util.Log(cfg.Verbose, "[rank %2d] accumulated %d distinct determinants", r, b.Len())
		for _, c := range b.Items() {
			merged.Append(c.Det, c.Coeff)
		}
	}

	fmt.Fprintf(out, "generated %d contributions, %d distinct determinants\n", total.Total(), merged.Len())
	for _, c := range asci.Classes() {
		fmt.Fprintf(out, "  %-4s %d\n", c, total.Counts[c])
	}
	fmt.Fprintf(out, "top %d:\n", cfg.Top)
	for _, c := range merged.Top(cfg.Top) {
		fmt.Fprintf(out, "  %s %s % .6e\n", c.Det.Alpha().StringN(cfg.Norb), c.Det.Beta().StringN(cfg.Norb), c.Coeff)
	}
	return serveMetrics(cmd.Context(), cfg.MetricsAddr, rec, out)
}

// serveMetrics exposes rec on addr until the process is interrupted. It
// returns at once when addr is empty.
func serveMetrics(ctx context.Context, addr string, rec *metrics.Recorder, out io.Writer) error {
	if addr == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reg := prometheus.NewRegistry()
	if err := rec.Register(reg); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Fprintf(out, "serving metrics on http://%s/metrics (interrupt to exit)\n", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
