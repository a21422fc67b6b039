package parity

import (
	"math"
	"testing"

	"umcp/domain/core"
)

func TestIdenticalFaces(t *testing.T) {
	va := []float64{1.0, 2.0, 3.0, 4.0}
	vb := []float64{1.0, 2.0, 3.0, 4.0}

	c, err := Certify(va, vb, Params{Column: "kappa", Lipschitz: 10, Alpha: 0.05})
	if err != nil {
		t.Fatal(err)
	}

	if c.ROOR != 0 {
		t.Errorf("r_oor = %v, want 0 for identical faces", c.ROOR)
	}
	wantHW := math.Sqrt(math.Log(2.0/0.05) / 8.0)
	if math.Abs(c.HalfWidth-wantHW) > 1e-15 {
		t.Errorf("half_width = %v, want %v", c.HalfWidth, wantHW)
	}
	if math.Abs(c.Bound-wantHW) > 1e-15 {
		t.Errorf("bound = %v, want half-width alone", c.Bound)
	}
	if !c.Holds || c.MeanGap != 0 {
		t.Errorf("identical faces must certify: gap=%v holds=%v", c.MeanGap, c.Holds)
	}
}

func TestOutOfRangeRate(t *testing.T) {
	va := []float64{1, 2, 3, 4}
	vb := []float64{1, 2.5, 3, 4.5}

	c, err := Certify(va, vb, Params{Lipschitz: 1, Alpha: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if c.ROOR != 0.5 {
		t.Errorf("r_oor = %v, want 0.5", c.ROOR)
	}
}

func TestSubThresholdJitterIgnored(t *testing.T) {
	va := []float64{1, 2, 3}
	vb := []float64{1 + 1e-13, 2 - 1e-14, 3}

	c, err := Certify(va, vb, Params{Lipschitz: 100, Alpha: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if c.ROOR != 0 {
		t.Errorf("jitter below threshold counted: r_oor = %v", c.ROOR)
	}
}

func TestAuxiliaryTermEntersBound(t *testing.T) {
	va := []float64{1, 2}
	vb := []float64{1, 2}

	base, _ := Certify(va, vb, Params{Lipschitz: 1, Alpha: 0.05})
	withAux, _ := Certify(va, vb, Params{Lipschitz: 1, Alpha: 0.05, Aux: core.Known(0.25)})

	if math.Abs((withAux.Bound-base.Bound)-0.25) > 1e-15 {
		t.Errorf("aux shift = %v, want 0.25", withAux.Bound-base.Bound)
	}
}

func TestCertifyPreconditions(t *testing.T) {
	if _, err := Certify([]float64{1}, []float64{1, 2}, Params{Alpha: 0.05}); err != core.ErrLengthMismatch {
		t.Errorf("length mismatch: %v", err)
	}
	if _, err := Certify(nil, nil, Params{Alpha: 0.05}); err != core.ErrEmptyChannel {
		t.Errorf("empty input: %v", err)
	}
	if _, err := Certify([]float64{1}, []float64{1}, Params{Alpha: 0}); err != core.ErrBadAlpha {
		t.Errorf("alpha=0: %v", err)
	}
	if _, err := Certify([]float64{1}, []float64{1}, Params{Alpha: 1}); err != core.ErrBadAlpha {
		t.Errorf("alpha=1: %v", err)
	}
}
