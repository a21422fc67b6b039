package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Scalar is an optional float64. A missing or unparsable value is Unknown,
// never zero: every downstream check must see the absence explicitly.
type Scalar struct {
	Value float64
	Known bool
}

// Known constructs a resolved scalar.
func Known(v float64) Scalar {
	return Scalar{Value: v, Known: true}
}

// Unknown is the absent-value marker.
var Unknown = Scalar{}

// ParseScalar coerces a CSV cell to a Scalar. Empty cells, non-numeric
// tokens, NaN and infinities all map to Unknown.
func ParseScalar(cell string) Scalar {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Unknown
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Unknown
	}
	return Known(v)
}

// Sub returns s - o, Unknown if either side is Unknown.
func (s Scalar) Sub(o Scalar) Scalar {
	if !s.Known || !o.Known {
		return Unknown
	}
	return Known(s.Value - o.Value)
}

// Abs returns |s|, Unknown-propagating.
func (s Scalar) Abs() Scalar {
	if !s.Known {
		return Unknown
	}
	return Known(math.Abs(s.Value))
}

// MaxScalar returns the larger of a and b, Unknown if either is Unknown.
func MaxScalar(a, b Scalar) Scalar {
	if !a.Known || !b.Known {
		return Unknown
	}
	return Known(math.Max(a.Value, b.Value))
}

// MinScalar returns the smaller of a and b, Unknown if either is Unknown.
func MinScalar(a, b Scalar) Scalar {
	if !a.Known || !b.Known {
		return Unknown
	}
	return Known(math.Min(a.Value, b.Value))
}

// Or returns s when known, otherwise the fallback.
func (s Scalar) Or(fallback Scalar) Scalar {
	if s.Known {
		return s
	}
	return fallback
}

// MarshalJSON encodes Unknown as null so reports round-trip without
// inventing zeros.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null to Unknown.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Unknown
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Known(v)
	return nil
}
