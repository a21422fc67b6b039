package weld

import (
	"math"
	"testing"

	"umcp/domain/audit"
	"umcp/domain/core"
)

func f(v float64) *float64 { return &v }

func fullTolerances() Tolerances {
	return Resolve(ToleranceSpec{
		EpsKappa: f(0.001),
		EpsUAbs:  f(1e-6),
		EpsURel:  f(1e-3),
	})
}

func rec(kappa, u, c, tau float64) audit.Record {
	return audit.Record{
		Kappa: core.Known(kappa),
		U:     core.Known(u),
		C:     core.Known(c),
		TauR:  core.Known(tau),
	}
}

func TestKappaCheckPassAndFail(t *testing.T) {
	tol := fullTolerances()

	b := EvalBoundary(0, rec(1.0, 0, 0, 0), rec(1.0005, 0, 0, 0), tol)
	if b.KappaOK != core.FlagPass {
		t.Errorf("delta 0.0005 vs eps 0.001: got %s, want pass", b.KappaOK)
	}

	b = EvalBoundary(0, rec(1.0, 0, 0, 0), rec(1.01, 0, 0, 0), tol)
	if b.KappaOK != core.FlagFail {
		t.Errorf("delta 0.01 vs eps 0.001: got %s, want fail", b.KappaOK)
	}
}

func TestChecksUnknownIffOperandMissing(t *testing.T) {
	tol := fullTolerances()

	// Missing kappa on one side.
	left := rec(1, 2, 3, 4)
	right := rec(1, 2, 3, 4)
	right.Kappa = core.Unknown
	right.IC = core.Unknown
	b := EvalBoundary(0, left, right, tol)
	if b.KappaOK != core.FlagUnknown {
		t.Errorf("kappa check with missing operand: %s", b.KappaOK)
	}
	// The other checks stay resolved: independence.
	if b.UOK == core.FlagUnknown || b.LipschitzOK == core.FlagUnknown {
		t.Errorf("independent checks degraded: U=%s lip=%s", b.UOK, b.LipschitzOK)
	}

	// Missing tolerance: unresolved eps_kappa must not default.
	symTol := fullTolerances()
	symTol.EpsKappa = core.Unknown
	b = EvalBoundary(0, rec(1, 2, 3, 4), rec(1, 2, 3, 4), symTol)
	if b.KappaOK != core.FlagUnknown {
		t.Errorf("symbolic eps_kappa resolved to %s", b.KappaOK)
	}

	// Missing U operand hits both the U check and the Lipschitz check.
	right = rec(1, 2, 3, 4)
	right.U = core.Unknown
	right.C = core.Unknown
	b = EvalBoundary(0, left, right, tol)
	if b.UOK != core.FlagUnknown {
		t.Errorf("U check with missing U: %s", b.UOK)
	}
	if b.LipschitzOK != core.FlagUnknown {
		t.Errorf("lipschitz check with missing C: %s", b.LipschitzOK)
	}

	// Fully resolved pair: nothing unknown.
	b = EvalBoundary(0, rec(1, 2, 3, 4), rec(1, 2, 3, 4), tol)
	for name, flag := range map[string]core.Flag{
		"kappa": b.KappaOK, "U": b.UOK, "lipschitz": b.LipschitzOK,
	} {
		if flag == core.FlagUnknown {
			t.Errorf("%s check unknown with all operands present", name)
		}
	}
}

func TestUCheckRelativeTolerance(t *testing.T) {
	tol := Resolve(ToleranceSpec{
		EpsKappa: f(0.001),
		EpsUAbs:  f(0.01),
		EpsURel:  f(0.1),
	})

	// |dU| = 0.5, scale = max(|10|,|10.5|) = 10.5, limit = max(0.01, 1.05).
	b := EvalBoundary(0, rec(0, 10, 0, 0), rec(0, 10.5, 0, 0), tol)
	if b.UOK != core.FlagPass {
		t.Errorf("relative band should cover dU=0.5: %s", b.UOK)
	}

	// |dU| = 2 exceeds the band.
	b = EvalBoundary(0, rec(0, 10, 0, 0), rec(0, 12, 0, 0), tol)
	if b.UOK != core.FlagFail {
		t.Errorf("dU=2 beyond band: %s", b.UOK)
	}
}

func TestLipschitzBoundFormula(t *testing.T) {
	tol := Resolve(ToleranceSpec{TauMinHint: f(1.0)})

	left := rec(0, 0, 2.0, 3.0)
	right := rec(0, 0, 2.5, 5.0)
	b := EvalBoundary(0, left, right, tol)

	// tau_min = max(1, min(3,5), 0) = 3; bound = 0.5/4 + 2.5*2/16 = 0.4375.
	want := 0.5/4.0 + 2.5*2.0/16.0
	if !b.LipschitzBound.Known {
		t.Fatal("bound unresolved")
	}
	if math.Abs(b.LipschitzBound.Value-want) > 1e-12 {
		t.Errorf("bound = %v, want %v", b.LipschitzBound.Value, want)
	}
}

func TestLipschitzBoundMonotone(t *testing.T) {
	tol := Tolerances{}
	base := EvalBoundary(0, rec(0, 0, 1.0, 2.0), rec(0, 0, 1.5, 2.0), tol)

	// Growing |dC| only grows the bound.
	prev := base.LipschitzBound.Value
	for _, cRight := range []float64{2.0, 3.0, 5.0, 9.0} {
		b := EvalBoundary(0, rec(0, 0, 1.0, 2.0), rec(0, 0, cRight, 2.0), tol)
		if b.LipschitzBound.Value < prev {
			t.Errorf("bound shrank as |dC| grew: %v -> %v", prev, b.LipschitzBound.Value)
		}
		prev = b.LipschitzBound.Value
	}

	// Growing |d_tau| only grows the bound (tau_min fixed by the left side).
	prev = EvalBoundary(0, rec(0, 0, 1, 2), rec(0, 0, 1, 2), tol).LipschitzBound.Value
	for _, tauRight := range []float64{3, 5, 10} {
		b := EvalBoundary(0, rec(0, 0, 1, 2), rec(0, 0, 1, tauRight), tol)
		if b.LipschitzBound.Value < prev {
			t.Errorf("bound shrank as |d_tau| grew: %v -> %v", prev, b.LipschitzBound.Value)
		}
		prev = b.LipschitzBound.Value
	}
}

func TestNegativeTauClampedToZero(t *testing.T) {
	tol := Tolerances{}
	b := EvalBoundary(0, rec(0, 0, 1, -4), rec(0, 0, 2, -4), tol)
	// tau_min clamps to 0, so denom is 1 and the bound is exactly |dC|.
	if b.LipschitzBound.Value != 1.0 {
		t.Errorf("bound = %v, want 1.0 with tau_min clamped", b.LipschitzBound.Value)
	}
}
