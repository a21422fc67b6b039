package app

import (
	"io"
	"os"

	"umcp/adapters/csvio"
	"umcp/domain/transport"
	"umcp/internal/errors"
)

// TransportService validates the transport identity and kappa weld across
// every step of a time-sorted audit CSV.
type TransportService struct {
	kernel transport.Kernel
}

// TransportRequest defines one validation run. OutPath "-" writes the step
// rows to stdout.
type TransportRequest struct {
	AuditPath string
	OutPath   string
}

// NewTransportService creates a transport service.
func NewTransportService(kernel transport.Kernel) *TransportService {
	return &TransportService{kernel: kernel}
}

// Run validates the sequence and writes the per-step CSV.
func (s *TransportService) Run(req TransportRequest) ([]transport.StepResult, transport.Summary, error) {
	series, err := csvio.ReadAudit(req.AuditPath)
	if err != nil {
		return nil, transport.Summary{}, err
	}

	results, summary, err := transport.ValidateSequence(series, s.kernel)
	if err != nil {
		return nil, transport.Summary{}, errors.Wrapf(err, "validate %s", req.AuditPath)
	}

	var w io.Writer
	switch req.OutPath {
	case "", "-":
		w = os.Stdout
	default:
		f, err := os.Create(req.OutPath)
		if err != nil {
			return nil, transport.Summary{}, errors.Wrapf(err, "create %s", req.OutPath)
		}
		defer f.Close()
		w = f
	}
	if err := csvio.WriteTransportSteps(w, results); err != nil {
		return nil, transport.Summary{}, errors.Wrapf(err, "write steps")
	}
	return results, summary, nil
}
