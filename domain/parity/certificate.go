// Package parity certifies that two parallel audit faces agree in aggregate:
// the absolute difference of the face means is upper-bounded by
// L*r_oor + aux + Hoeffding half-width at significance alpha.
package parity

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"umcp/domain/core"
)

// CertificateVersion tags the parity certificate schema.
const CertificateVersion = "umcp-parity/2.0"

// oorThreshold is the fixed tiny threshold separating "same value" from an
// out-of-range pair.
const oorThreshold = 1e-12

// Params configure one certificate computation.
type Params struct {
	// Column names the audit field being compared.
	Column string `json:"column"`

	// Lipschitz is the constant L scaling the out-of-range rate.
	Lipschitz float64 `json:"lipschitz"`

	// Alpha is the Hoeffding significance level, in (0,1).
	Alpha float64 `json:"alpha"`

	// Aux is an optional analytic slack carried over from a weld summary
	// (boundaries * eps_kappa / N). Only the kappa column has one.
	Aux core.Scalar `json:"aux"`
}

// Certificate is the immutable output of one parity check.
type Certificate struct {
	Version     string         `json:"version"`
	RunID       core.RunID     `json:"run_id"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	Params      Params         `json:"params"`

	SampleSize int     `json:"sample_size"`
	MeanA      float64 `json:"mean_a"`
	MeanB      float64 `json:"mean_b"`
	MeanGap    float64 `json:"mean_gap"`

	// ROOR is the fraction of row pairs differing by more than the fixed
	// threshold.
	ROOR float64 `json:"r_oor"`

	// HalfWidth is sqrt(ln(2/alpha) / (2N)).
	HalfWidth float64 `json:"half_width"`

	// Bound = L*ROOR + aux + HalfWidth, asserted to dominate MeanGap.
	Bound float64 `json:"bound"`
	Holds bool    `json:"holds"`
}

// Certify computes the certificate over two pairwise-complete series.
func Certify(va, vb []float64, p Params) (Certificate, error) {
	if len(va) != len(vb) {
		return Certificate{}, core.ErrLengthMismatch
	}
	if len(va) == 0 {
		return Certificate{}, core.ErrEmptyChannel
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return Certificate{}, core.ErrBadAlpha
	}

	n := len(va)
	oor := 0
	for i := range va {
		if math.Abs(va[i]-vb[i]) > oorThreshold {
			oor++
		}
	}

	c := Certificate{
		Version:     CertificateVersion,
		RunID:       core.NewRunID(),
		GeneratedAt: core.Now(),
		Params:      p,
		SampleSize:  n,
		MeanA:       stat.Mean(va, nil),
		MeanB:       stat.Mean(vb, nil),
		ROOR:        float64(oor) / float64(n),
		HalfWidth:   math.Sqrt(math.Log(2.0/p.Alpha) / (2.0 * float64(n))),
	}
	c.MeanGap = math.Abs(c.MeanA - c.MeanB)

	aux := 0.0
	if p.Aux.Known {
		aux = p.Aux.Value
	}
	c.Bound = p.Lipschitz*c.ROOR + aux + c.HalfWidth
	c.Holds = c.MeanGap <= c.Bound

	return c, nil
}
