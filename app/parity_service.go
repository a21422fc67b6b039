package app

import (
	"umcp/adapters/csvio"
	"umcp/domain/audit"
	"umcp/domain/core"
	"umcp/domain/parity"
	"umcp/internal/errors"
)

// ParityService certifies aggregate agreement between two parallel audit
// faces.
type ParityService struct{}

// ParityRequest defines one certificate computation.
type ParityRequest struct {
	FaceAPath string
	FaceBPath string
	Column    audit.Column
	Lipschitz float64
	Alpha     float64

	// WeldReportPath optionally supplies the auxiliary slack term; it only
	// applies to the kappa column.
	WeldReportPath string

	OutPath string
}

// NewParityService creates a parity service.
func NewParityService() *ParityService {
	return &ParityService{}
}

// Run loads both faces, aligns them pairwise-complete and certifies the
// mean gap. Absence of either face file is the hard precondition failure.
func (s *ParityService) Run(req ParityRequest) (*parity.Certificate, error) {
	va, vb, err := csvio.Faces(req.FaceAPath, req.FaceBPath, req.Column)
	if err != nil {
		return nil, err
	}

	aux := core.Unknown
	if req.WeldReportPath != "" && req.Column == audit.ColKappa {
		report, err := LoadReport(req.WeldReportPath)
		if err != nil {
			return nil, err
		}
		aux = report.Summary.AuxiliaryTerm(len(va))
	}

	cert, err := parity.Certify(va, vb, parity.Params{
		Column:    string(req.Column),
		Lipschitz: req.Lipschitz,
		Alpha:     req.Alpha,
		Aux:       aux,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "certify %s vs %s", req.FaceAPath, req.FaceBPath)
	}

	if req.OutPath != "" {
		if err := writeJSON(req.OutPath, cert); err != nil {
			return nil, errors.Wrapf(err, "write certificate %s", req.OutPath)
		}
	}
	return &cert, nil
}
