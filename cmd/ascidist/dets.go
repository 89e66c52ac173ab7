package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"ascigo/internal/core"
	"ascigo/internal/util"
	"ascigo/pkg/asci"
)

// readDets parses one determinant per line as "<alpha> <beta> [coeff]",
// each string written most significant orbital first. Blank lines and lines
// starting with '#' are skipped. A missing coefficient defaults to 1.
func readDets(r io.Reader) ([]core.Det, []float64, error) {
	var (
		dets   []core.Det
		coeffs []float64
	)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, nil, fmt.Errorf("line %d: want \"<alpha> <beta> [coeff]\", got %q", line, text)
		}
		alpha, err := parseSpinString(fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: alpha: %w", line, err)
		}
		beta, err := parseSpinString(fields[1])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: beta: %w", line, err)
		}
		c := 1.0
		if len(fields) == 3 {
			if c, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, nil, fmt.Errorf("line %d: coefficient: %w", line, err)
			}
		}
		dets = append(dets, core.Compose(alpha, beta))
		coeffs = append(coeffs, c)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return dets, coeffs, nil
}

func parseSpinString(s string) (core.Det, error) {
	if len(s) > core.SpinBits {
		return core.Det{}, fmt.Errorf("string of %d orbitals: %w", len(s), core.ErrOrbitalBudget)
	}
	return core.ParseString(s)
}

// loadDets reads cfg.DetsFile, or samples cfg.NumDets determinants when no
// file is configured. Sampled coefficients decay geometrically.
func loadDets(cfg Config) ([]core.Det, []float64, error) {
	if cfg.DetsFile == "" {
		dets := util.RandomDets(cfg.Norb, cfg.NAlpha, cfg.NBeta, cfg.NumDets, cfg.Seed)
		coeffs := make([]float64, len(dets))
		for n := range coeffs {
			coeffs[n] = math.Pow(0.9, float64(n))
		}
		return dets, coeffs, nil
	}
	f, err := os.Open(cfg.DetsFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	dets, coeffs, err := readDets(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.DetsFile, err)
	}
	return dets, coeffs, nil
}

func wavefunction(h *asci.Hamiltonian, dets []core.Det, coeffs []float64) []asci.Term {
	wfn := make([]asci.Term, len(dets))
	for n, d := range dets {
		wfn[n] = asci.Term{Det: d, Coeff: coeffs[n], Diag: h.DetDiag(d)}
	}
	return wfn
}
