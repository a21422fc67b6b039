// Package invariants derives the collapse-calculus statistics
// (omega, F, S, C, tau_R, IC, kappa) from a raw measurement channel under a
// frozen calibration, producing audit rows ready for weld and transport
// validation.
package invariants

import (
	"fmt"
	"math"
	"strconv"

	"umcp/domain/audit"
	"umcp/domain/core"
)

// Kernel constants of the invariant pipeline.
const (
	defaultEps     = 1e-8
	defaultK       = 3
	defaultAlpha   = 1.0
	emaLambda      = 0.2
	tauRK          = 2.5
	epsRetMin      = 5e-4
	epsRetMax      = 0.07
	tauRHorizon    = 600
	tauRDebounce   = 2
	integrityFloor = 1e-300
)

// Params configure one pipeline run. A and B are the frozen calibration
// (b > 0); Eps and K default to the kernel constants when zero.
type Params struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Eps   float64 `json:"epsilon"`
	K     int     `json:"K"`
	Alpha float64 `json:"alpha"`
}

func (p Params) withDefaults() Params {
	if p.Eps == 0 {
		p.Eps = defaultEps
	}
	if p.K == 0 {
		p.K = defaultK
	}
	if p.Alpha == 0 {
		p.Alpha = defaultAlpha
	}
	return p
}

// Row is one computed invariant row.
type Row struct {
	T     string  `json:"t"`
	XRaw  float64 `json:"x_raw"`
	Y     float64 `json:"y"`
	XHat  float64 `json:"xhat"`
	Omega float64 `json:"omega"`
	F     float64 `json:"F"`
	S     float64 `json:"S"`
	C     float64 `json:"C"`
	TauR  float64 `json:"tau_R"`
	IC    float64 `json:"IC"`
	Kappa float64 `json:"kappa"`
}

// Clip01 clamps into [0,1].
func Clip01(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

// Compute runs the pipeline over a raw channel. Row i derives:
//
//	y = (x-a)/b, xhat = clip01(y), omega_i = |y_i - y_{i-1}| (0 at i=0),
//	F = 1-omega, S = -ln(1-omega+eps),
//	C = mean squared K-lag delta of xhat (0 until the window fills),
//	tau_R = debounced minimal return time of xhat,
//	IC = F*exp(-S)*(1-omega)*exp(-alpha*C/(1+tau_R)), kappa = ln(IC).
func Compute(labels []string, xRaw []float64, p Params) ([]Row, error) {
	if p.B <= 0 {
		return nil, core.ErrBadCalibration
	}
	if len(xRaw) == 0 {
		return nil, core.ErrEmptyChannel
	}
	p = p.withDefaults()

	rows := make([]Row, len(xRaw))
	y := make([]float64, len(xRaw))
	xhat := make([]float64, len(xRaw))
	resSigma := 0.0

	for i, xr := range xRaw {
		y[i] = (xr - p.A) / p.B
		xhat[i] = Clip01(y[i])

		omega := 0.0
		if i > 0 {
			omega = math.Abs(y[i] - y[i-1])
		}
		fid := 1.0 - omega
		ent := -math.Log(1.0 - omega + p.Eps)

		c := curvature(xhat[:i+1], p.K)

		if i > 0 {
			resSigma = emaLambda*math.Abs(xhat[i]-xhat[i-1]) + (1-emaLambda)*resSigma
		}
		epsRet := math.Max(epsRetMin, math.Min(tauRK*resSigma, epsRetMax))
		tau := returnTime(xhat[:i+1], epsRet)

		ic := fid * math.Exp(-ent) * (1.0 - omega) * math.Exp(-p.Alpha*c/(1.0+float64(tau)))
		kappa := math.Log(math.Max(ic, integrityFloor))

		label := strconv.Itoa(i)
		if i < len(labels) {
			label = labels[i]
		}
		rows[i] = Row{
			T: label, XRaw: xr, Y: y[i], XHat: xhat[i],
			Omega: omega, F: fid, S: ent, C: c,
			TauR: float64(tau), IC: ic, Kappa: kappa,
		}
	}
	return rows, nil
}

// curvature is the mean squared delta between the newest xhat and its K
// predecessors; zero until K+1 samples exist.
func curvature(xhat []float64, k int) float64 {
	if len(xhat) < k+1 {
		return 0
	}
	last := xhat[len(xhat)-1]
	sum := 0.0
	for j := 1; j <= k; j++ {
		d := last - xhat[len(xhat)-1-j]
		sum += d * d
	}
	return sum / float64(k)
}

// returnTime is the minimal dt > 0 with |xhat_t - xhat_{t-dt}| < eps seen
// tauRDebounce times in a row, capped at the horizon.
func returnTime(xhat []float64, eps float64) int {
	t := len(xhat) - 1
	target := xhat[t]
	maxH := tauRHorizon
	if t < maxH {
		maxH = t
	}
	seen := 0
	for dt := 1; dt <= maxH; dt++ {
		if math.Abs(target-xhat[t-dt]) < eps {
			seen++
			if seen >= tauRDebounce {
				return dt
			}
		} else {
			seen = 0
		}
	}
	return tauRHorizon
}

// AuditRecord converts a computed row into an audit record with every
// derived field resolved.
func (r Row) AuditRecord() audit.Record {
	return audit.Record{
		T:     r.T,
		Kappa: core.Known(r.Kappa),
		C:     core.Known(r.C),
		TauR:  core.Known(r.TauR),
		Omega: core.Known(r.Omega),
		IC:    core.Known(r.IC),
	}
}

// Series converts a pipeline run into an audit series.
func Series(rows []Row) audit.Series {
	out := make(audit.Series, len(rows))
	for i, r := range rows {
		out[i] = r.AuditRecord()
	}
	return out
}

func (p Params) String() string {
	p = p.withDefaults()
	return fmt.Sprintf("a=%g b=%g eps=%g K=%d alpha=%g", p.A, p.B, p.Eps, p.K, p.Alpha)
}
