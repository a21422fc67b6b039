// Package csvio moves audit data between CSV files and the domain types.
// Numeric coercion is forgiving (bad cells become Unknown); structural
// problems (missing file, missing column) are errors.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"

	"umcp/domain/audit"
	"umcp/domain/core"
)

// known audit columns; anything else passes through untouched.
const (
	colT     = "t"
	colKappa = "kappa"
	colU     = "U"
	colC     = "C"
	colTauR  = "tau_R"
	colOmega = "omega"
	colIC    = "IC"
	colGuard = "guard_on"
)

// ReadAudit loads a time-sorted audit CSV into a series. Every row in the
// file produces a record; unparsable numeric cells become Unknown.
func ReadAudit(path string) (audit.Series, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	series := make(audit.Series, 0, len(rows))
	for _, raw := range rows {
		rec := audit.Record{}
		for i, col := range header {
			if i >= len(raw) {
				break
			}
			cell := raw[i]
			switch col {
			case colT:
				rec.T = cell
			case colKappa:
				rec.Kappa = core.ParseScalar(cell)
			case colU:
				rec.U = core.ParseScalar(cell)
			case colC:
				rec.C = core.ParseScalar(cell)
			case colTauR:
				rec.TauR = core.ParseScalar(cell)
			case colOmega:
				rec.Omega = core.ParseScalar(cell)
			case colIC:
				rec.IC = core.ParseScalar(cell)
			case colGuard:
				rec.GuardOn = parseGuard(cell)
			default:
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[col] = cell
			}
		}
		series = append(series, rec)
	}
	return series, nil
}

// ReadChannel extracts one named numeric column plus its time labels,
// skipping rows whose cell does not parse.
func ReadChannel(path, column string) (labels []string, values []float64, err error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, nil, err
	}

	colIdx, tIdx := -1, -1
	for i, col := range header {
		if col == column {
			colIdx = i
		}
		if col == colT {
			tIdx = i
		}
	}
	if colIdx < 0 {
		return nil, nil, core.NewColumnMissingError(column)
	}

	for rowNum, raw := range rows {
		if colIdx >= len(raw) {
			continue
		}
		v := core.ParseScalar(raw[colIdx])
		if !v.Known {
			continue
		}
		label := fmt.Sprintf("%d", rowNum)
		if tIdx >= 0 && tIdx < len(raw) {
			label = raw[tIdx]
		}
		labels = append(labels, label)
		values = append(values, v.Value)
	}
	return labels, values, nil
}

// Calibration carries the frozen (a, b) pair read from a raw-channel CSV.
type Calibration struct {
	A float64
	B float64
}

// ReadCalibrated loads a raw channel CSV with columns t, x_raw and the
// frozen calibration columns a, b. The calibration is taken from the first
// row; b must be positive.
func ReadCalibrated(path string) (labels []string, x []float64, cal Calibration, err error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, nil, cal, err
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	xi, ok := idx["x_raw"]
	if !ok {
		return nil, nil, cal, core.NewColumnMissingError("x_raw")
	}
	ai, haveA := idx["a"]
	bi, haveB := idx["b"]

	for rowNum, raw := range rows {
		if xi >= len(raw) {
			continue
		}
		v := core.ParseScalar(raw[xi])
		if !v.Known {
			continue
		}
		if len(x) == 0 {
			cal = Calibration{A: 0, B: 1}
			if haveA && ai < len(raw) {
				if a := core.ParseScalar(raw[ai]); a.Known {
					cal.A = a.Value
				}
			}
			if haveB && bi < len(raw) {
				if b := core.ParseScalar(raw[bi]); b.Known {
					cal.B = b.Value
				}
			}
		}
		label := fmt.Sprintf("%d", rowNum)
		if ti, ok := idx[colT]; ok && ti < len(raw) {
			label = raw[ti]
		}
		labels = append(labels, label)
		x = append(x, v.Value)
	}
	if cal.B <= 0 && len(x) > 0 {
		return nil, nil, cal, core.ErrBadCalibration
	}
	return labels, x, cal, nil
}

func readAll(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, core.NewInputMissingError(path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows tolerated; short cells stay unknown
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file, need a header row", path)
	}
	return all[0], all[1:], nil
}

func parseGuard(cell string) bool {
	switch cell {
	case "1", "true", "True", "TRUE":
		return true
	}
	return false
}
