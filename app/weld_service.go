package app

import (
	"context"
	"encoding/json"
	"os"

	"umcp/adapters/csvio"
	"umcp/adapters/excel"
	"umcp/adapters/ledger"
	"umcp/domain/weld"
	"umcp/internal/config"
	"umcp/internal/errors"
)

// WeldService runs boundary-continuity validation over an audit CSV and
// writes the report artifacts.
type WeldService struct {
	cfg *config.Config
}

// WeldRequest defines one weld run.
type WeldRequest struct {
	AuditPath string
	OutPath   string
	XLSXPath  string // optional workbook export
	Ledger    bool   // append to the run ledger when configured
}

// NewWeldService creates a weld service.
func NewWeldService(cfg *config.Config) *WeldService {
	return &WeldService{cfg: cfg}
}

// Run loads the audit series, evaluates every boundary and writes the JSON
// report. The returned report is the same immutable value that was written.
func (s *WeldService) Run(ctx context.Context, req WeldRequest) (*weld.Report, error) {
	series, err := csvio.ReadAudit(req.AuditPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load audit %s", req.AuditPath)
	}

	tol := s.cfg.ResolveTolerances()
	boundaries, err := weld.EvalSeries(series, tol)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate %s", req.AuditPath)
	}

	report := weld.NewReport(req.AuditPath, tol, boundaries)

	if req.OutPath != "" {
		if err := writeJSON(req.OutPath, report); err != nil {
			return nil, errors.Wrapf(err, "write report %s", req.OutPath)
		}
	}
	if req.XLSXPath != "" {
		if err := excel.WriteReport(report, req.XLSXPath); err != nil {
			return nil, errors.Wrapf(err, "write workbook %s", req.XLSXPath)
		}
	}
	if req.Ledger && s.cfg.Ledger.Path != "" {
		if err := s.recordRun(ctx, report); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

func (s *WeldService) recordRun(ctx context.Context, report weld.Report) error {
	l, err := ledger.Open(s.cfg.Ledger.Path)
	if err != nil {
		return errors.LedgerError(err)
	}
	defer l.Close()
	if err := l.RecordWeld(ctx, report); err != nil {
		return errors.LedgerError(err)
	}
	return nil
}

// LoadReport reads a previously written weld report back from disk.
func LoadReport(path string) (*weld.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read report %s", path)
	}
	var report weld.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrapf(err, "decode report %s", path)
	}
	return &report, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
