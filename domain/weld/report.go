package weld

import (
	"math"

	"umcp/domain/audit"
	"umcp/domain/core"
)

// ReportVersion tags the weld report schema.
const ReportVersion = "umcp-weld/2.0"

// Summary aggregates over all boundaries of a run.
type Summary struct {
	Boundaries int `json:"boundaries"`

	// CumKappaJump sums |d_kappa|; an unknown delta contributes zero but
	// the boundary still counts.
	CumKappaJump float64 `json:"cum_kappa_jump"`

	// Bound is boundaries * eps_kappa, unknown while eps_kappa is symbolic.
	Bound core.Scalar `json:"bound"`
	Pass  core.Flag   `json:"pass"`
}

// Report is the immutable output of one weld run.
type Report struct {
	Version     string         `json:"version"`
	RunID       core.RunID     `json:"run_id"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	Source      string         `json:"source,omitempty"`
	Tolerances  Tolerances     `json:"tolerances"`
	Boundaries  []Boundary     `json:"boundaries"`
	Summary     Summary        `json:"summary"`
	Fingerprint core.Hash      `json:"fingerprint,omitempty"`
}

// EvalSeries walks a time-sorted series and evaluates every adjacent pair.
// Needs at least two rows.
func EvalSeries(s audit.Series, tol Tolerances) ([]Boundary, error) {
	if len(s) < 2 {
		return nil, core.ErrShortSequence
	}
	boundaries := make([]Boundary, 0, len(s)-1)
	for i := 0; i+1 < len(s); i++ {
		boundaries = append(boundaries, EvalBoundary(i, s[i], s[i+1], tol))
	}
	return boundaries, nil
}

// Summarize folds boundaries into the run summary.
func Summarize(boundaries []Boundary, tol Tolerances) Summary {
	sum := Summary{Boundaries: len(boundaries)}
	for _, b := range boundaries {
		if d := b.DKappa.Abs(); d.Known {
			sum.CumKappaJump += d.Value
		}
	}
	if tol.EpsKappa.Known {
		sum.Bound = core.Known(float64(sum.Boundaries) * tol.EpsKappa.Value)
	} else {
		sum.Bound = core.Unknown
	}
	sum.Pass = core.FlagLE(core.Known(sum.CumKappaJump), sum.Bound)
	return sum
}

// NewReport builds a fresh report for one run. The fingerprint covers
// tolerances, boundaries and summary so identical inputs are recognizable
// across runs with different IDs.
func NewReport(source string, tol Tolerances, boundaries []Boundary) Report {
	r := Report{
		Version:     ReportVersion,
		RunID:       core.NewRunID(),
		GeneratedAt: core.Now(),
		Source:      source,
		Tolerances:  tol,
		Boundaries:  boundaries,
		Summary:     Summarize(boundaries, tol),
	}
	if fp, err := core.Fingerprint(struct {
		Tolerances Tolerances `json:"tolerances"`
		Boundaries []Boundary `json:"boundaries"`
		Summary    Summary    `json:"summary"`
	}{r.Tolerances, r.Boundaries, r.Summary}); err == nil {
		r.Fingerprint = fp
	}
	return r
}

// PassCounts reports how many boundaries definitively passed each check.
func PassCounts(boundaries []Boundary) (kappa, u, lipschitz int) {
	for _, b := range boundaries {
		if b.KappaOK.Passed() {
			kappa++
		}
		if b.UOK.Passed() {
			u++
		}
		if b.LipschitzOK.Passed() {
			lipschitz++
		}
	}
	return kappa, u, lipschitz
}

// AuxiliaryTerm derives the parity-certificate auxiliary from a weld
// summary: boundaries * eps_kappa / n. Only meaningful for the kappa
// column; unknown when eps_kappa never resolved or n is zero.
func (s Summary) AuxiliaryTerm(n int) core.Scalar {
	if !s.Bound.Known || n <= 0 {
		return core.Unknown
	}
	return core.Known(s.Bound.Value / float64(n))
}

// MaxAbsKappaJump is the largest resolved |d_kappa| across boundaries,
// NaN-free and zero when nothing resolved.
func MaxAbsKappaJump(boundaries []Boundary) float64 {
	max := 0.0
	for _, b := range boundaries {
		if d := b.DKappa.Abs(); d.Known {
			max = math.Max(max, d.Value)
		}
	}
	return max
}
