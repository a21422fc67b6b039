package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseScalar(t *testing.T) {
	cases := []struct {
		name  string
		cell  string
		known bool
		value float64
	}{
		{"plain number", "1.5", true, 1.5},
		{"negative", "-0.25", true, -0.25},
		{"scientific", "1e-9", true, 1e-9},
		{"padded", "  3.0 ", true, 3.0},
		{"empty", "", false, 0},
		{"whitespace", "   ", false, 0},
		{"non numeric", "n/a", false, 0},
		{"nan token", "NaN", false, 0},
		{"inf token", "+Inf", false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseScalar(tc.cell)
			if got.Known != tc.known {
				t.Fatalf("ParseScalar(%q).Known = %v, want %v", tc.cell, got.Known, tc.known)
			}
			if tc.known && got.Value != tc.value {
				t.Errorf("ParseScalar(%q).Value = %v, want %v", tc.cell, got.Value, tc.value)
			}
		})
	}
}

func TestScalarArithmeticPropagatesUnknown(t *testing.T) {
	if got := Known(2).Sub(Unknown); got.Known {
		t.Errorf("Sub with unknown right side resolved to %v", got.Value)
	}
	if got := Unknown.Sub(Known(2)); got.Known {
		t.Errorf("Sub with unknown left side resolved to %v", got.Value)
	}
	if got := Unknown.Abs(); got.Known {
		t.Errorf("Abs of unknown resolved to %v", got.Value)
	}
	if got := MaxScalar(Known(1), Unknown); got.Known {
		t.Errorf("MaxScalar with unknown resolved to %v", got.Value)
	}
	if got := MinScalar(Unknown, Known(1)); got.Known {
		t.Errorf("MinScalar with unknown resolved to %v", got.Value)
	}
}

func TestScalarArithmetic(t *testing.T) {
	if got := Known(1.5).Sub(Known(2)); got.Value != -0.5 {
		t.Errorf("Sub = %v, want -0.5", got.Value)
	}
	if got := Known(-3).Abs(); got.Value != 3 {
		t.Errorf("Abs = %v, want 3", got.Value)
	}
	if got := MaxScalar(Known(1), Known(2)); got.Value != 2 {
		t.Errorf("MaxScalar = %v, want 2", got.Value)
	}
	if got := MinScalar(Known(1), Known(2)); got.Value != 1 {
		t.Errorf("MinScalar = %v, want 1", got.Value)
	}
	if got := Unknown.Or(Known(7)); got.Value != 7 || !got.Known {
		t.Errorf("Or fallback = %+v, want Known(7)", got)
	}
}

func TestScalarJSONRoundTrip(t *testing.T) {
	in := []Scalar{Known(0.0005), Unknown, Known(-1.25), Known(math.Pi)}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out []Scalar
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("length %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("round trip [%d]: %+v != %+v", i, out[i], in[i])
		}
	}
}

func TestFlagLE(t *testing.T) {
	if got := FlagLE(Known(0.0005), Known(0.001)); got != FlagPass {
		t.Errorf("FlagLE(0.0005, 0.001) = %s, want pass", got)
	}
	if got := FlagLE(Known(0.01), Known(0.001)); got != FlagFail {
		t.Errorf("FlagLE(0.01, 0.001) = %s, want fail", got)
	}
	if got := FlagLE(Unknown, Known(0.001)); got != FlagUnknown {
		t.Errorf("FlagLE with unknown value = %s, want unknown", got)
	}
	if got := FlagLE(Known(0.01), Unknown); got != FlagUnknown {
		t.Errorf("FlagLE with unknown limit = %s, want unknown", got)
	}
}
