// Package excel exports weld reports as xlsx workbooks for reviewers who
// live in spreadsheets. The JSON report stays the canonical artifact.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"umcp/domain/core"
	"umcp/domain/weld"
)

const (
	summarySheet  = "Summary"
	boundarySheet = "Boundaries"
)

// WriteReport writes the report to an xlsx workbook at path.
func WriteReport(report weld.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, report); err != nil {
		return err
	}
	if err := writeBoundarySheet(f, report.Boundaries); err != nil {
		return err
	}

	// Drop the default sheet so Summary opens first.
	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report weld.Report) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	kappa, u, lip := weld.PassCounts(report.Boundaries)
	rows := [][]interface{}{
		{"version", report.Version},
		{"run_id", report.RunID.String()},
		{"generated_at", report.GeneratedAt.String()},
		{"source", report.Source},
		{"fingerprint", report.Fingerprint.String()},
		{},
		{"eps_kappa", scalarCell(report.Tolerances.EpsKappa)},
		{"eps_U_abs", scalarCell(report.Tolerances.EpsUAbs)},
		{"eps_U_rel", scalarCell(report.Tolerances.EpsURel)},
		{"tau_min_hint", scalarCell(report.Tolerances.TauMinHint)},
		{},
		{"boundaries", report.Summary.Boundaries},
		{"cum_kappa_jump", report.Summary.CumKappaJump},
		{"bound", scalarCell(report.Summary.Bound)},
		{"pass", string(report.Summary.Pass)},
		{"kappa_pass", kappa},
		{"U_pass", u},
		{"lipschitz_pass", lip},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeBoundarySheet(f *excelize.File, boundaries []weld.Boundary) error {
	if _, err := f.NewSheet(boundarySheet); err != nil {
		return err
	}

	header := []interface{}{
		"idx", "kappa_left", "kappa_right", "d_kappa",
		"U_left", "U_right", "d_U",
		"C_left", "C_right", "tau_R_left", "tau_R_right",
		"lipschitz_bound", "kappa_ok", "U_ok", "lipschitz_ok",
	}
	if err := f.SetSheetRow(boundarySheet, "A1", &header); err != nil {
		return err
	}

	for i, b := range boundaries {
		row := []interface{}{
			b.Index,
			scalarCell(b.KappaLeft), scalarCell(b.KappaRight), scalarCell(b.DKappa),
			scalarCell(b.ULeft), scalarCell(b.URight), scalarCell(b.DU),
			scalarCell(b.CLeft), scalarCell(b.CRight),
			scalarCell(b.TauRLeft), scalarCell(b.TauRRight),
			scalarCell(b.LipschitzBound),
			string(b.KappaOK), string(b.UOK), string(b.LipschitzOK),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(boundarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// scalarCell renders Unknown as an empty cell rather than zero.
func scalarCell(s core.Scalar) interface{} {
	if !s.Known {
		return ""
	}
	return s.Value
}
