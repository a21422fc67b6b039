package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umcp/domain/audit"
	"umcp/domain/core"
	"umcp/domain/weld"
)

func testReport(t *testing.T, source string) weld.Report {
	t.Helper()
	eps := 0.5
	tol := weld.Resolve(weld.ToleranceSpec{EpsKappa: &eps})
	s := audit.Series{{Kappa: core.Known(1.0)}, {Kappa: core.Known(1.1)}}
	boundaries, err := weld.EvalSeries(s, tol)
	require.NoError(t, err)
	return weld.NewReport(source, tol, boundaries)
}

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)

	r1 := testReport(t, "a.csv")
	r2 := testReport(t, "b.csv")
	require.NoError(t, l.RecordWeld(ctx, r1))
	require.NoError(t, l.RecordWeld(ctx, r2))

	entries, err := l.BySource(ctx, "a.csv")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, r1.RunID.String(), entries[0].RunID)
	assert.Equal(t, "weld", entries[0].Kind)
	assert.Equal(t, 1, entries[0].Boundaries)
	assert.Equal(t, "pass", entries[0].Pass)

	recent, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)

	r := testReport(t, "a.csv")
	require.NoError(t, l.RecordWeld(ctx, r))
	assert.Error(t, l.RecordWeld(ctx, r))
}

func TestSameFingerprint(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)

	r := testReport(t, "a.csv")
	require.NoError(t, l.RecordWeld(ctx, r))

	seen, err := l.SameFingerprint(ctx, "a.csv", r.Fingerprint)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = l.SameFingerprint(ctx, "a.csv", core.Hash("other"))
	require.NoError(t, err)
	assert.False(t, seen)
}
