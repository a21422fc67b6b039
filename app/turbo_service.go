package app

import (
	"os"

	"umcp/adapters/csvio"
	"umcp/domain/invariants"
	"umcp/internal/errors"
)

// TurboService derives the full invariant set plus SPC overlays from a raw
// channel CSV and emits a weld-ready audit CSV.
type TurboService struct{}

// TurboRequest defines one pipeline run. Sigma is the baseline standard
// deviation for the SPC overlays.
type TurboRequest struct {
	CSVPath string
	OutPath string
	Sigma   float64
	Params  invariants.Params
}

// NewTurboService creates a turbo service.
func NewTurboService() *TurboService {
	return &TurboService{}
}

// Run reads the calibrated channel, computes invariants and writes the
// audit CSV. The calibration (a, b) comes from the input file unless the
// request params already set it.
func (s *TurboService) Run(req TurboRequest) ([]invariants.Row, error) {
	labels, x, cal, err := csvio.ReadCalibrated(req.CSVPath)
	if err != nil {
		return nil, err
	}

	p := req.Params
	if p.B == 0 {
		p.A, p.B = cal.A, cal.B
	}

	rows, err := invariants.Compute(labels, x, p)
	if err != nil {
		return nil, errors.Wrapf(err, "compute invariants for %s", req.CSVPath)
	}

	ys := make([]float64, len(rows))
	for i, r := range rows {
		ys[i] = r.Y
	}
	sigma := req.Sigma
	if sigma == 0 {
		sigma = 1.0
	}
	spc := invariants.SPCOverlay(ys, sigma)

	out, err := os.Create(req.OutPath)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", req.OutPath)
	}
	defer out.Close()
	if err := csvio.WriteInvariantRows(out, rows, spc); err != nil {
		return nil, errors.Wrapf(err, "write audit rows")
	}
	return rows, nil
}
