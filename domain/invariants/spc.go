package invariants

import "math"

// SPC overlay constants, kept for comparability with classical control
// charts rather than for the collapse identities themselves.
const (
	ewmaLambda = 0.2
	ewmaL      = 3.0
	cusumK     = 0.5
	cusumH     = 5.0
	shewhartL  = 3.0
)

// SPCRow carries the classical control-chart flags for one sample.
type SPCRow struct {
	Shewhart bool    `json:"shewhart_flag"`
	EWMA     float64 `json:"ewma"`
	EWMAFlag bool    `json:"ewma_flag"`
	CusumPos float64 `json:"cusum_pos"`
	CusumNeg float64 `json:"cusum_neg"`
	Cusum    bool    `json:"cusum_flag"`
}

// SPCOverlay computes Shewhart, EWMA and CUSUM flags over the normalized
// channel y with baseline sigma.
func SPCOverlay(y []float64, sigma float64) []SPCRow {
	out := make([]SPCRow, len(y))

	k := cusumK * sigma
	h := cusumH * sigma
	sigmaZ := sigma * math.Sqrt(ewmaLambda/(2.0-ewmaLambda))

	z := 0.0
	cp, cn := 0.0, 0.0
	for i, v := range y {
		if i == 0 {
			z = v
		} else {
			z = ewmaLambda*v + (1-ewmaLambda)*z
		}

		cp = math.Max(0, (v-k)+cp)
		cn = math.Max(0, (-v-k)+cn)

		out[i] = SPCRow{
			Shewhart: math.Abs(v) > shewhartL*sigma,
			EWMA:     z,
			EWMAFlag: math.Abs(z) > ewmaL*sigmaZ,
			CusumPos: cp,
			CusumNeg: cn,
			Cusum:    cp > h || cn > h,
		}
	}
	return out
}
