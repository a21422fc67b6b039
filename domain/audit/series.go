package audit

import "umcp/domain/core"

// Series is an ordered, time-sorted run of records.
type Series []Record

// Column identifies a numeric field of a Record.
type Column string

const (
	ColKappa Column = "kappa"
	ColU     Column = "U"
	ColC     Column = "C"
	ColTauR  Column = "tau_R"
	ColOmega Column = "omega"
	ColIC    Column = "IC"
)

// Field extracts the named column from a record. Kappa and U go through
// their derivation fallbacks so a series carrying only IC or only C/tau_R
// is still usable.
func (r Record) Field(col Column) core.Scalar {
	switch col {
	case ColKappa:
		return r.EffectiveKappa()
	case ColU:
		return r.EffectiveU()
	case ColC:
		return r.C
	case ColTauR:
		return r.TauR
	case ColOmega:
		return r.Omega
	case ColIC:
		return r.IC
	default:
		return core.Unknown
	}
}

// Channel extracts the column as raw values, skipping unknowns.
func (s Series) Channel(col Column) []float64 {
	out := make([]float64, 0, len(s))
	for _, r := range s {
		if v := r.Field(col); v.Known {
			out = append(out, v.Value)
		}
	}
	return out
}

// PairwiseComplete aligns two series by row position and keeps only pairs
// where the column is resolved on both faces. Lengths beyond the shorter
// series are ignored.
func PairwiseComplete(a, b Series, col Column) (va, vb []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x := a[i].Field(col)
		y := b[i].Field(col)
		if x.Known && y.Known {
			va = append(va, x.Value)
			vb = append(vb, y.Value)
		}
	}
	return va, vb
}
