package weld

import (
	"encoding/json"
	"math"
	"testing"

	"umcp/domain/audit"
	"umcp/domain/core"
)

func kappaSeries(values ...float64) audit.Series {
	s := make(audit.Series, len(values))
	for i, v := range values {
		s[i] = audit.Record{Kappa: core.Known(v)}
	}
	return s
}

func TestSummaryCumulativeJump(t *testing.T) {
	// Deltas 0.1, -0.2, 0.05 across four rows.
	s := kappaSeries(1.0, 1.1, 0.9, 0.95)
	tol := Resolve(ToleranceSpec{EpsKappa: f(0.5)})

	boundaries, err := EvalSeries(s, tol)
	if err != nil {
		t.Fatal(err)
	}
	sum := Summarize(boundaries, tol)

	if sum.Boundaries != 3 {
		t.Errorf("boundaries = %d, want 3", sum.Boundaries)
	}
	if math.Abs(sum.CumKappaJump-0.35) > 1e-12 {
		t.Errorf("cum_kappa_jump = %v, want 0.35", sum.CumKappaJump)
	}
	if !sum.Bound.Known || math.Abs(sum.Bound.Value-1.5) > 1e-12 {
		t.Errorf("bound = %+v, want 1.5", sum.Bound)
	}
	if sum.Pass != core.FlagPass {
		t.Errorf("0.35 <= 1.5 should pass, got %s", sum.Pass)
	}
}

func TestSummaryUnknownDeltasCountButAddZero(t *testing.T) {
	s := audit.Series{
		{Kappa: core.Known(1.0)},
		{}, // kappa missing: two unknown deltas around it
		{Kappa: core.Known(1.2)},
	}
	tol := Resolve(ToleranceSpec{EpsKappa: f(0.001)})

	boundaries, err := EvalSeries(s, tol)
	if err != nil {
		t.Fatal(err)
	}
	sum := Summarize(boundaries, tol)

	if sum.Boundaries != 2 {
		t.Errorf("boundaries = %d, want 2 (count unaffected by missing)", sum.Boundaries)
	}
	if sum.CumKappaJump != 0 {
		t.Errorf("cum_kappa_jump = %v, want 0", sum.CumKappaJump)
	}
}

func TestSummaryUnknownWithoutEpsKappa(t *testing.T) {
	s := kappaSeries(1.0, 1.1)
	tol := Tolerances{}

	boundaries, _ := EvalSeries(s, tol)
	sum := Summarize(boundaries, tol)

	if sum.Bound.Known {
		t.Errorf("bound resolved without eps_kappa: %v", sum.Bound.Value)
	}
	if sum.Pass != core.FlagUnknown {
		t.Errorf("pass = %s, want unknown", sum.Pass)
	}
}

func TestEvalSeriesNeedsTwoRows(t *testing.T) {
	_, err := EvalSeries(kappaSeries(1.0), Tolerances{})
	if err == nil {
		t.Fatal("single-row series accepted")
	}
	if !core.IsSequenceError(err) {
		t.Errorf("wrong error kind: %v", err)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	s := kappaSeries(1.0, 1.0005, 1.002)
	tol := Resolve(ToleranceSpec{EpsKappa: f(0.001), EpsUAbs: f(1e-6), EpsURel: f(1e-3)})

	boundaries, err := EvalSeries(s, tol)
	if err != nil {
		t.Fatal(err)
	}
	in := NewReport("audit.csv", tol, boundaries)

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Report
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Version != ReportVersion || out.RunID != in.RunID {
		t.Errorf("identity fields drifted: %s %s", out.Version, out.RunID)
	}
	if out.Tolerances != in.Tolerances {
		t.Errorf("tolerances drifted: %+v != %+v", out.Tolerances, in.Tolerances)
	}
	if len(out.Boundaries) != len(in.Boundaries) {
		t.Fatalf("boundary count drifted: %d != %d", len(out.Boundaries), len(in.Boundaries))
	}
	for i := range in.Boundaries {
		if out.Boundaries[i] != in.Boundaries[i] {
			t.Errorf("boundary %d drifted after round trip", i)
		}
	}
	if out.Summary != in.Summary {
		t.Errorf("summary drifted: %+v != %+v", out.Summary, in.Summary)
	}
}

func TestReportFingerprintIgnoresRunIdentity(t *testing.T) {
	s := kappaSeries(1.0, 1.1)
	tol := Resolve(ToleranceSpec{EpsKappa: f(0.5)})
	boundaries, _ := EvalSeries(s, tol)

	r1 := NewReport("a.csv", tol, boundaries)
	r2 := NewReport("a.csv", tol, boundaries)

	if r1.RunID == r2.RunID {
		t.Error("distinct runs share a run ID")
	}
	if !r1.Fingerprint.Equals(r2.Fingerprint) {
		t.Error("identical inputs produced different fingerprints")
	}
}

func TestAuxiliaryTerm(t *testing.T) {
	sum := Summary{Boundaries: 4, Bound: core.Known(0.004)}
	aux := sum.AuxiliaryTerm(100)
	if !aux.Known || math.Abs(aux.Value-0.00004) > 1e-18 {
		t.Errorf("aux = %+v, want 0.00004", aux)
	}
	if got := (Summary{}).AuxiliaryTerm(100); got.Known {
		t.Errorf("aux resolved without a bound: %v", got.Value)
	}
	if got := sum.AuxiliaryTerm(0); got.Known {
		t.Errorf("aux resolved with n=0: %v", got.Value)
	}
}
