package app

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"umcp/adapters/csvio"
	"umcp/domain/core"
	"umcp/domain/invariants"
	"umcp/domain/regime"
	"umcp/internal/errors"
)

// PlaygroundService recomputes invariants for a raw channel under chosen
// parameters and summarizes the resulting regimes.
type PlaygroundService struct {
	gates regime.Gates
}

// PlaygroundRequest defines one analysis run.
type PlaygroundRequest struct {
	CSVPath string
	Channel string
	Params  invariants.Params
	OutPath string
}

// PlaygroundSummary is the JSON summary artifact.
type PlaygroundSummary struct {
	RunID        core.RunID            `json:"run_id"`
	GeneratedAt  core.Timestamp        `json:"generated_at"`
	Samples      int                   `json:"n_samples"`
	Params       invariants.Params     `json:"params"`
	RegimeCounts map[regime.Regime]int `json:"regime_counts"`
	MeanOmega    float64               `json:"mean_omega"`
	MeanC        float64               `json:"mean_C"`
	MeanKappa    float64               `json:"mean_kappa"`
}

// NewPlaygroundService creates a playground service.
func NewPlaygroundService(gates regime.Gates) *PlaygroundService {
	return &PlaygroundService{gates: gates}
}

// Run extracts the channel, computes invariants and writes the summary.
func (s *PlaygroundService) Run(req PlaygroundRequest) (*PlaygroundSummary, error) {
	labels, values, err := csvio.ReadChannel(req.CSVPath, req.Channel)
	if err != nil {
		return nil, err
	}

	summary, err := s.analyze(labels, values, req.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "analyze channel %s", req.Channel)
	}

	if req.OutPath != "" {
		if err := writeJSON(req.OutPath, summary); err != nil {
			return nil, errors.Wrapf(err, "write summary %s", req.OutPath)
		}
	}
	return summary, nil
}

func (s *PlaygroundService) analyze(labels []string, values []float64, p invariants.Params) (*PlaygroundSummary, error) {
	rows, err := invariants.Compute(labels, values, p)
	if err != nil {
		return nil, err
	}

	series := invariants.Series(rows)
	omegas := make([]float64, len(rows))
	cs := make([]float64, len(rows))
	kappas := make([]float64, len(rows))
	for i, r := range rows {
		omegas[i] = r.Omega
		cs[i] = r.C
		kappas[i] = r.Kappa
	}

	meanOmega, _ := stats.Mean(omegas)
	meanC, _ := stats.Mean(cs)
	meanKappa, _ := stats.Mean(kappas)

	return &PlaygroundSummary{
		RunID:        core.NewRunID(),
		GeneratedAt:  core.Now(),
		Samples:      len(rows),
		Params:       p,
		RegimeCounts: regime.Counts(series, s.gates),
		MeanOmega:    meanOmega,
		MeanC:        meanC,
		MeanKappa:    meanKappa,
	}, nil
}

// SweepPoint is one parameter combination with its summary.
type SweepPoint struct {
	Eps     float64            `json:"epsilon"`
	K       int                `json:"K"`
	Summary *PlaygroundSummary `json:"summary"`
}

// SweepRequest defines a parameter grid over (epsilon, K).
type SweepRequest struct {
	CSVPath string
	Channel string
	Base    invariants.Params
	EpsGrid []float64
	KGrid   []int
	OutPath string
}

// sweepWorkers bounds the concurrent grid evaluation.
const sweepWorkers = 4

// Sweep evaluates the full (epsilon, K) grid concurrently and returns the
// points in deterministic grid order.
func (s *PlaygroundService) Sweep(ctx context.Context, req SweepRequest) ([]SweepPoint, error) {
	labels, values, err := csvio.ReadChannel(req.CSVPath, req.Channel)
	if err != nil {
		return nil, err
	}

	type cell struct {
		eps float64
		k   int
	}
	grid := make([]cell, 0, len(req.EpsGrid)*len(req.KGrid))
	for _, eps := range req.EpsGrid {
		for _, k := range req.KGrid {
			grid = append(grid, cell{eps, k})
		}
	}

	points := make([]SweepPoint, len(grid))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(sweepWorkers)
	for i, c := range grid {
		g.Go(func() error {
			p := req.Base
			p.Eps = c.eps
			p.K = c.k
			summary, err := s.analyze(labels, values, p)
			if err != nil {
				return err
			}
			points[i] = SweepPoint{Eps: c.eps, K: c.k, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Eps != points[j].Eps {
			return points[i].Eps < points[j].Eps
		}
		return points[i].K < points[j].K
	})

	if req.OutPath != "" {
		if err := writeJSON(req.OutPath, points); err != nil {
			return nil, errors.Wrapf(err, "write sweep %s", req.OutPath)
		}
	}
	return points, nil
}
