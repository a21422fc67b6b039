// Package regime assigns categorical stability labels to audit rows from
// threshold comparisons on drift and curvature.
package regime

import (
	"umcp/domain/audit"
)

// Regime is a categorical stability label.
type Regime string

const (
	Stable   Regime = "Stable"
	Watch    Regime = "Watch"
	Collapse Regime = "Collapse"
	// Unknown labels a row whose gating inputs are missing.
	Unknown Regime = "Unknown"
)

// Gates hold the classification thresholds. Defaults follow the published
// playground gates.
type Gates struct {
	OmegaWatch    float64 `json:"omega_watch"`
	OmegaCollapse float64 `json:"omega_collapse"`
	CWatch        float64 `json:"c_watch"`
}

// DefaultGates returns omega_watch=0.038, omega_collapse=0.30, c_watch=0.14.
func DefaultGates() Gates {
	return Gates{OmegaWatch: 0.038, OmegaCollapse: 0.30, CWatch: 0.14}
}

// Classify labels one record. Collapse dominates Watch; a missing omega
// makes the row unclassifiable regardless of curvature.
func Classify(r audit.Record, g Gates) Regime {
	if !r.Omega.Known {
		return Unknown
	}
	switch {
	case r.Omega.Value >= g.OmegaCollapse:
		return Collapse
	case r.Omega.Value >= g.OmegaWatch:
		return Watch
	case r.C.Known && r.C.Value >= g.CWatch:
		return Watch
	default:
		return Stable
	}
}

// Counts tallies regimes over a series.
func Counts(s audit.Series, g Gates) map[Regime]int {
	counts := make(map[Regime]int)
	for _, r := range s {
		counts[Classify(r, g)]++
	}
	return counts
}
