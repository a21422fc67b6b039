package weld

import (
	"math"

	"umcp/domain/audit"
	"umcp/domain/core"
)

// Boundary carries the raw values, deltas and check outcomes for one
// adjacent row pair. Immutable once built.
type Boundary struct {
	Index int `json:"idx"`

	KappaLeft  core.Scalar `json:"kappa_left"`
	KappaRight core.Scalar `json:"kappa_right"`
	ULeft      core.Scalar `json:"U_left"`
	URight     core.Scalar `json:"U_right"`
	CLeft      core.Scalar `json:"C_left"`
	CRight     core.Scalar `json:"C_right"`
	TauRLeft   core.Scalar `json:"tau_R_left"`
	TauRRight  core.Scalar `json:"tau_R_right"`

	DKappa core.Scalar `json:"d_kappa"`
	DU     core.Scalar `json:"d_U"`
	DC     core.Scalar `json:"d_C"`
	DTauR  core.Scalar `json:"d_tau_R"`

	LipschitzBound core.Scalar `json:"lipschitz_bound"`

	// The three checks are independent; no combined verdict exists.
	KappaOK     core.Flag `json:"kappa_ok"`
	UOK         core.Flag `json:"U_ok"`
	LipschitzOK core.Flag `json:"lipschitz_ok"`
}

// EvalBoundary evaluates all three continuity checks for the pair
// (left, right) under the resolved tolerances.
func EvalBoundary(idx int, left, right audit.Record, tol Tolerances) Boundary {
	b := Boundary{
		Index:      idx,
		KappaLeft:  left.EffectiveKappa(),
		KappaRight: right.EffectiveKappa(),
		ULeft:      left.EffectiveU(),
		URight:     right.EffectiveU(),
		CLeft:      left.C,
		CRight:     right.C,
		TauRLeft:   left.TauR,
		TauRRight:  right.TauR,
	}

	b.DKappa = b.KappaRight.Sub(b.KappaLeft)
	b.DU = b.URight.Sub(b.ULeft)
	b.DC = b.CRight.Sub(b.CLeft)
	b.DTauR = b.TauRRight.Sub(b.TauRLeft)

	b.KappaOK = core.FlagLE(b.DKappa.Abs(), tol.EpsKappa)
	b.UOK = core.FlagLE(b.DU.Abs(), uTolerance(b.ULeft, b.URight, tol))
	b.LipschitzBound = lipschitzBound(b, tol.TauMinHint)
	b.LipschitzOK = core.FlagLE(b.DU.Abs(), b.LipschitzBound)

	return b
}

// uTolerance is max(eps_U_abs, eps_U_rel * max(|U_l|, |U_r|)); Unknown
// whenever any ingredient is.
func uTolerance(ul, ur core.Scalar, tol Tolerances) core.Scalar {
	scale := core.MaxScalar(ul.Abs(), ur.Abs())
	if !scale.Known || !tol.EpsUAbs.Known || !tol.EpsURel.Known {
		return core.Unknown
	}
	return core.Known(math.Max(tol.EpsUAbs.Value, tol.EpsURel.Value*scale.Value))
}

// lipschitzBound derives the transport continuity bound
//
//	|dC|/(1+tau_min) + max(|C_l|,|C_r|) * |d_tau|/(1+tau_min)^2
//
// with tau_min = max(hint, min(tau_l, tau_r), 0). An absent hint means the
// hint term simply does not participate; absent C or tau_R on either side
// leaves the bound Unknown.
func lipschitzBound(b Boundary, hint core.Scalar) core.Scalar {
	dc := b.DC.Abs()
	dtau := b.DTauR.Abs()
	cMax := core.MaxScalar(b.CLeft.Abs(), b.CRight.Abs())
	tauMin := core.MinScalar(b.TauRLeft, b.TauRRight)
	if !dc.Known || !dtau.Known || !cMax.Known || !tauMin.Known {
		return core.Unknown
	}

	tm := math.Max(tauMin.Value, 0)
	if hint.Known {
		tm = math.Max(hint.Value, tm)
	}

	denom := 1.0 + tm
	return core.Known(dc.Value/denom + cMax.Value*dtau.Value/(denom*denom))
}
