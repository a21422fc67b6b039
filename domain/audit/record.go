// Package audit holds the time-ordered measurement rows every validator
// consumes. Rows come from an audit CSV sorted by time; numeric fields that
// fail to parse stay Unknown rather than becoming zeros.
package audit

import (
	"math"

	"umcp/domain/core"
)

// icFloor keeps ln(IC) finite when integrity collapses to zero numerically.
const icFloor = 1e-300

// Record is one audit row.
type Record struct {
	T       string      `json:"t"`
	Kappa   core.Scalar `json:"kappa"`
	U       core.Scalar `json:"U"`
	C       core.Scalar `json:"C"`
	TauR    core.Scalar `json:"tau_R"`
	Omega   core.Scalar `json:"omega"`
	IC      core.Scalar `json:"IC"`
	GuardOn bool        `json:"guard_on,omitempty"`

	// Extra carries passthrough columns untouched.
	Extra map[string]string `json:"extra,omitempty"`
}

// EffectiveKappa prefers the kappa column; when absent it derives
// kappa = ln(IC) with IC clipped into (0,1].
func (r Record) EffectiveKappa() core.Scalar {
	if r.Kappa.Known {
		return r.Kappa
	}
	if !r.IC.Known {
		return core.Unknown
	}
	ic := math.Min(math.Max(r.IC.Value, icFloor), 1.0)
	return core.Known(math.Log(ic))
}

// EffectiveU prefers the U column; when absent it derives the transport
// payload U = C/(1+tau_R).
func (r Record) EffectiveU() core.Scalar {
	if r.U.Known {
		return r.U
	}
	if !r.C.Known || !r.TauR.Known {
		return core.Unknown
	}
	return core.Known(r.C.Value / (1.0 + r.TauR.Value))
}
