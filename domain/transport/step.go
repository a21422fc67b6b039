package transport

import (
	"umcp/domain/audit"
	"umcp/domain/core"
)

// StepResult is one validated transition. One row per (n, n+1) pair; flags
// stay tri-state so a row missing an operand never fakes a verdict.
type StepResult struct {
	Index int `json:"idx"`

	OmegaN    core.Scalar `json:"omega_n"`
	OmegaNext core.Scalar `json:"omega_np1"`
	FaceN     Face        `json:"face_n"`
	FaceNext  Face        `json:"face_np1"`

	UN     core.Scalar `json:"U_n"`
	UNext  core.Scalar `json:"U_np1"`
	UPred  core.Scalar `json:"U_pred"`
	ResidT core.Scalar `json:"rT"`
	ResidW core.Scalar `json:"rW"`

	OKT core.Flag `json:"okT"`
	OKW core.Flag `json:"okW"`
}

// Summary counts definite passes over a validated sequence.
type Summary struct {
	Steps         int `json:"total_steps"`
	TransportPass int `json:"transport_pass"`
	WeldPass      int `json:"weld_pass"`
}

// ValidateStep checks the transport identity and kappa weld across one pair
// of audit rows.
func ValidateStep(idx int, rowN, rowNext audit.Record, k Kernel) StepResult {
	res := StepResult{
		Index:     idx,
		OmegaN:    rowN.Omega,
		OmegaNext: rowNext.Omega,
		UN:        rowN.EffectiveU(),
		UNext:     rowNext.EffectiveU(),
	}

	// Weld residual needs only kappa on both sides.
	kN := rowN.EffectiveKappa()
	kNext := rowNext.EffectiveKappa()
	res.ResidW = kNext.Sub(kN)
	res.OKW = core.FlagLE(res.ResidW.Abs(), core.Known(k.TolW))

	// Faces are reportable whenever drift is, even if U is not.
	if res.OmegaN.Known {
		res.FaceN = ChooseFace(res.OmegaN.Value, rowN.GuardOn, k.Pivot)
	}
	if res.OmegaNext.Known {
		res.FaceNext = ChooseFace(res.OmegaNext.Value, rowNext.GuardOn, k.Pivot)
	}

	if !res.OmegaN.Known || !res.OmegaNext.Known || !res.UN.Known || !res.UNext.Known {
		res.OKT = core.FlagUnknown
		return res
	}

	omN, omNext := res.OmegaN.Value, res.OmegaNext.Value
	res.UPred = core.Known(predictU(res.UN.Value, omN, omNext, res.FaceN, res.FaceNext, k))
	res.ResidT = res.UNext.Sub(res.UPred)
	res.OKT = core.FlagLE(res.ResidT.Abs(), core.Known(k.TolT))
	return res
}

// predictU transports U across the step. When the step straddles the pivot
// and the faces differ, the update splits at omega = pivot; otherwise a
// single-face update on the left face applies.
func predictU(u, omN, omNext float64, faceN, faceNext Face, k Kernel) float64 {
	if faceN == faceNext {
		return TransportU(u, omN, omNext, k, faceN)
	}
	lo, hi := omN, omNext
	if lo > hi {
		lo, hi = hi, lo
	}
	if k.Pivot < lo || k.Pivot > hi {
		return TransportU(u, omN, omNext, k, faceN)
	}
	uMid := TransportU(u, omN, k.Pivot, k, faceN)
	return TransportU(uMid, k.Pivot, omNext, k, faceNext)
}

// ValidateSequence validates all adjacent pairs of a time-sorted series and
// folds the pass counts. Needs at least two rows.
func ValidateSequence(s audit.Series, k Kernel) ([]StepResult, Summary, error) {
	if len(s) < 2 {
		return nil, Summary{}, core.ErrShortSequence
	}
	results := make([]StepResult, 0, len(s)-1)
	sum := Summary{Steps: len(s) - 1}
	for i := 0; i+1 < len(s); i++ {
		r := ValidateStep(i, s[i], s[i+1], k)
		if r.OKT.Passed() {
			sum.TransportPass++
		}
		if r.OKW.Passed() {
			sum.WeldPass++
		}
		results = append(results, r)
	}
	return results, sum, nil
}
