// Package ledger keeps an optional local history of validation runs in a
// SQLite file. Computation never depends on it; it exists so repeated runs
// over the same audit files can be compared later.
package ledger

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"umcp/domain/core"
	"umcp/domain/weld"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	source         TEXT NOT NULL,
	generated_at   TEXT NOT NULL,
	boundaries     INTEGER NOT NULL,
	cum_kappa_jump REAL NOT NULL,
	pass           TEXT NOT NULL,
	fingerprint    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
`

// Entry is one recorded run.
type Entry struct {
	RunID        string  `db:"run_id" json:"run_id"`
	Kind         string  `db:"kind" json:"kind"`
	Source       string  `db:"source" json:"source"`
	GeneratedAt  string  `db:"generated_at" json:"generated_at"`
	Boundaries   int     `db:"boundaries" json:"boundaries"`
	CumKappaJump float64 `db:"cum_kappa_jump" json:"cum_kappa_jump"`
	Pass         string  `db:"pass" json:"pass"`
	Fingerprint  string  `db:"fingerprint" json:"fingerprint"`
}

// Ledger wraps the SQLite handle.
type Ledger struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordWeld appends a weld run.
func (l *Ledger) RecordWeld(ctx context.Context, report weld.Report) error {
	return l.record(ctx, Entry{
		RunID:        report.RunID.String(),
		Kind:         "weld",
		Source:       report.Source,
		GeneratedAt:  report.GeneratedAt.String(),
		Boundaries:   report.Summary.Boundaries,
		CumKappaJump: report.Summary.CumKappaJump,
		Pass:         string(report.Summary.Pass),
		Fingerprint:  report.Fingerprint.String(),
	})
}

func (l *Ledger) record(ctx context.Context, e Entry) error {
	const q = `INSERT INTO runs (
		run_id, kind, source, generated_at, boundaries, cum_kappa_jump, pass, fingerprint
	) VALUES (:run_id, :kind, :source, :generated_at, :boundaries, :cum_kappa_jump, :pass, :fingerprint)`

	if _, err := l.db.NamedExecContext(ctx, q, e); err != nil {
		return fmt.Errorf("record run %s: %w", e.RunID, err)
	}
	return nil
}

// BySource lists recorded runs for one source file, newest first.
func (l *Ledger) BySource(ctx context.Context, source string) ([]Entry, error) {
	var entries []Entry
	const q = `SELECT run_id, kind, source, generated_at, boundaries,
		cum_kappa_jump, pass, fingerprint
		FROM runs WHERE source = ? ORDER BY generated_at DESC`
	if err := l.db.SelectContext(ctx, &entries, q, source); err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", source, err)
	}
	return entries, nil
}

// Recent lists the latest n runs across all sources.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Entry, error) {
	var entries []Entry
	const q = `SELECT run_id, kind, source, generated_at, boundaries,
		cum_kappa_jump, pass, fingerprint
		FROM runs ORDER BY generated_at DESC LIMIT ?`
	if err := l.db.SelectContext(ctx, &entries, q, n); err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return entries, nil
}

// SameFingerprint reports whether a prior run of this source produced the
// same fingerprint, i.e. the inputs have not changed.
func (l *Ledger) SameFingerprint(ctx context.Context, source string, fp core.Hash) (bool, error) {
	var count int
	const q = `SELECT COUNT(*) FROM runs WHERE source = ? AND fingerprint = ?`
	if err := l.db.GetContext(ctx, &count, q, source, fp.String()); err != nil {
		return false, err
	}
	return count > 0, nil
}
