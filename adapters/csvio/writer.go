package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"umcp/domain/audit"
	"umcp/domain/core"
	"umcp/domain/invariants"
	"umcp/domain/regime"
	"umcp/domain/transport"
)

// transportHeader matches the published step-validation schema.
var transportHeader = []string{
	"idx", "omega_n", "omega_np1", "face_n", "face_np1",
	"U_n", "U_np1", "U_pred", "rT", "rW", "okT", "okW",
}

// WriteTransportSteps emits one CSV row per validated step.
func WriteTransportSteps(w io.Writer, results []transport.StepResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transportHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Index),
			scalarCell(r.OmegaN),
			scalarCell(r.OmegaNext),
			string(r.FaceN),
			string(r.FaceNext),
			scalarCell(r.UN),
			scalarCell(r.UNext),
			scalarCell(r.UPred),
			scalarCell(r.ResidT),
			scalarCell(r.ResidW),
			flagCell(r.OKT),
			flagCell(r.OKW),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendRegimeColumn copies the audit CSV to outPath with a trailing
// "regime" column. Column order and untouched cells are preserved.
func AppendRegimeColumn(inPath, outPath string, gates regime.Gates) error {
	header, rows, err := readAll(inPath)
	if err != nil {
		return err
	}
	series, err := ReadAudit(inPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	if err := cw.Write(append(append([]string{}, header...), "regime")); err != nil {
		return err
	}
	for i, raw := range rows {
		label := regime.Classify(series[i], gates)
		if err := cw.Write(append(append([]string{}, raw...), string(label))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// auditHeader is the audit CSV schema the turbo pipeline emits.
var auditHeader = []string{
	"t", "x_raw", "y", "xhat", "omega", "F", "S", "C", "tau_R", "IC", "kappa",
	"shewhart_flag", "ewma_flag", "cusum_flag",
}

// WriteInvariantRows emits a weld-ready audit CSV from a pipeline run with
// its SPC overlay. rows and spc must be parallel.
func WriteInvariantRows(w io.Writer, rows []invariants.Row, spc []invariants.SPCRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return err
	}
	for i, r := range rows {
		row := []string{
			r.T,
			formatFloat(r.XRaw),
			formatFloat(r.Y),
			formatFloat(r.XHat),
			formatFloat(r.Omega),
			formatFloat(r.F),
			formatFloat(r.S),
			formatFloat(r.C),
			formatFloat(r.TauR),
			formatFloat(r.IC),
			formatFloat(r.Kappa),
			boolCell(i < len(spc) && spc[i].Shewhart),
			boolCell(i < len(spc) && spc[i].EWMAFlag),
			boolCell(i < len(spc) && spc[i].Cusum),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Faces loads the named column from two parallel audit files and aligns
// them pairwise-complete. A missing file surfaces as ErrInputMissing.
func Faces(pathA, pathB string, col audit.Column) (va, vb []float64, err error) {
	a, err := ReadAudit(pathA)
	if err != nil {
		return nil, nil, err
	}
	b, err := ReadAudit(pathB)
	if err != nil {
		return nil, nil, err
	}
	va, vb = audit.PairwiseComplete(a, b, col)
	return va, vb, nil
}

func scalarCell(s core.Scalar) string {
	if !s.Known {
		return ""
	}
	return formatFloat(s.Value)
}

func flagCell(f core.Flag) string {
	switch f {
	case core.FlagPass:
		return "1"
	case core.FlagFail:
		return "0"
	default:
		return ""
	}
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
