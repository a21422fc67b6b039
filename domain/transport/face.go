// Package transport validates the collapse-calculus transport identity:
// the curvature payload U must follow the secant-rate update of the active
// face potential across each step, and kappa must weld continuously.
package transport

import "math"

// Face selects the active potential.
type Face string

const (
	FaceNormal Face = "normal"
	FaceExact  Face = "exact"
)

// logFloor keeps ln arguments positive as omega approaches the wall.
const logFloor = 1e-300

// secantScale is the |d_omega| below which the secant degenerates to the
// pointwise tangent.
const secantScale = 1e-15

// Kernel holds the transport constants. Zero value is not usable; use
// DefaultKernel for the published constants.
type Kernel struct {
	// Alpha is the transport coefficient in the U update.
	Alpha float64 `json:"alpha"`
	// Eps is the small epsilon of the exact face potential.
	Eps float64 `json:"eps"`
	// P is the order of the normal face potential.
	P float64 `json:"p"`
	// TolT bounds the transport residual |U_pred - U|.
	TolT float64 `json:"tolT"`
	// TolW bounds the weld residual |kappa_{t+1} - kappa_t|.
	TolW float64 `json:"tolW"`
	// Pivot is the drift threshold for switching to the exact face.
	Pivot float64 `json:"pivot"`
}

// DefaultKernel carries the published constants: alpha=1, eps=1e-8, p=3,
// tolT=1e-9, tolW=1e-12, pivot=0.99.
func DefaultKernel() Kernel {
	return Kernel{Alpha: 1.0, Eps: 1e-8, P: 3.0, TolT: 1e-9, TolW: 1e-12, Pivot: 0.99}
}

// Phi is the face potential at drift omega.
//
// Exact face: 2 ln(1-omega) + ln(1-omega+eps). Normal face: p ln(1-omega).
func Phi(omega, eps, p float64, face Face) float64 {
	if face == FaceExact {
		return 2.0*math.Log(math.Max(1.0-omega, logFloor)) +
			math.Log(math.Max(1.0-omega+eps, logFloor))
	}
	return p * math.Log(math.Max(1.0-omega, logFloor))
}

// GammaPointwise is the tangent rate of the face potential.
func GammaPointwise(omega, eps, p float64, face Face) float64 {
	if face == FaceExact {
		return 2.0/(1.0-omega) + 1.0/(1.0-omega+eps)
	}
	return p / (1.0 - omega)
}

// GammaSecant is the secant rate across [omMinus, omPlus] on a fixed face,
// falling back to the tangent when the step is below machine scale.
func GammaSecant(omMinus, omPlus, eps, p float64, face Face) float64 {
	dOm := omPlus - omMinus
	if math.Abs(dOm) < secantScale {
		return GammaPointwise(omMinus, eps, p, face)
	}
	return (Phi(omMinus, eps, p, face) - Phi(omPlus, eps, p, face)) / dOm
}

// ChooseFace selects the exact face when the guardband is engaged or the
// drift sits at or beyond the pivot.
func ChooseFace(omega float64, guardOn bool, pivot float64) Face {
	if guardOn || omega >= pivot {
		return FaceExact
	}
	return FaceNormal
}

// TransportU advances the payload one step with the secant rate:
// U - Gamma * d_omega / alpha.
func TransportU(u, omN, omNext float64, k Kernel, face Face) float64 {
	gam := GammaSecant(omN, omNext, k.Eps, k.P, face)
	return u - (1.0/k.Alpha)*gam*(omNext-omN)
}
