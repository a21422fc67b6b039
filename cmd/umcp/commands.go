package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"umcp/adapters/csvio"
	"umcp/app"
	"umcp/domain/audit"
	"umcp/domain/core"
	"umcp/domain/invariants"
	"umcp/domain/weld"
	"umcp/ui"
)

func newWeldCmd() *cobra.Command {
	var outPath, xlsxPath string
	var useLedger bool

	cmd := &cobra.Command{
		Use:   "weld [audit-csv]",
		Short: "Evaluate boundary continuity for every adjacent row pair",
		Long: `Evaluate kappa, U and Lipschitz continuity across every boundary of a
time-sorted audit CSV and write the JSON report.

Example: umcp weld audit.csv --config tol.json --out report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			report, err := app.NewWeldService(cfg).Run(cmd.Context(), app.WeldRequest{
				AuditPath: args[0],
				OutPath:   outPath,
				XLSXPath:  xlsxPath,
				Ledger:    useLedger,
			})
			if err != nil {
				return err
			}
			kp, up, lp := weld.PassCounts(report.Boundaries)
			logger.Info("weld %s: %d boundaries (kappa %d, U %d, lipschitz %d pass)",
				args[0], report.Summary.Boundaries, kp, up, lp)
			if outPath == "" {
				return printJSON(cmd, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Report JSON path (stdout when empty)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Optional workbook export path")
	cmd.Flags().BoolVar(&useLedger, "ledger", false, "Append the run to the configured ledger")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "validate [audit-csv]",
		Short: "Check the transport identity and kappa weld per step",
		Long: `Validate pointwise transport across every step of an audit CSV. Step
rows go to --out ("-" for stdout); the tally goes to stderr.

Example: umcp validate audit.csv --out steps.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc := app.NewTransportService(cfg.ResolveKernel())
			_, summary, err := svc.Run(app.TransportRequest{
				AuditPath: args[0],
				OutPath:   outPath,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# summary: transport_pass=%d/%d  weld_pass=%d/%d\n",
				summary.TransportPass, summary.Steps, summary.WeldPass, summary.Steps)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "-", "Step CSV path (\"-\" for stdout)")

	return cmd
}

func newParityCmd() *cobra.Command {
	var column string
	var lipschitz, alpha float64
	var weldReport, outPath string

	cmd := &cobra.Command{
		Use:   "parity [face-a-csv] [face-b-csv]",
		Short: "Certify aggregate agreement between two audit faces",
		Long: `Compare one column across two parallel audit CSVs and emit a Hoeffding
parity certificate. A weld report supplies the analytic slack for kappa.

Example: umcp parity left.csv right.csv --column kappa --weld-report report.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := parseColumn(column)
			if err != nil {
				return err
			}
			cert, err := app.NewParityService().Run(app.ParityRequest{
				FaceAPath:      args[0],
				FaceBPath:      args[1],
				Column:         col,
				Lipschitz:      lipschitz,
				Alpha:          alpha,
				WeldReportPath: weldReport,
				OutPath:        outPath,
			})
			if err != nil {
				return err
			}
			logger.Info("parity %s: n=%d r_oor=%.6g bound=%.6g",
				column, cert.SampleSize, cert.ROOR, cert.Bound)
			if outPath == "" {
				return printJSON(cmd, cert)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "kappa", "Audit column to compare (kappa, U, C, tau_R, omega, IC)")
	cmd.Flags().Float64Var(&lipschitz, "lipschitz", 1.0, "Lipschitz constant scaling the out-of-range rate")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Hoeffding significance level")
	cmd.Flags().StringVar(&weldReport, "weld-report", "", "Weld report JSON supplying the kappa slack term")
	cmd.Flags().StringVar(&outPath, "out", "", "Certificate JSON path (stdout when empty)")

	return cmd
}

func newGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate [audit-csv] [out-csv]",
		Short: "Append a regime label column to an audit CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := csvio.AppendRegimeColumn(args[0], args[1], cfg.ResolveGates()); err != nil {
				return err
			}
			logger.Info("gate %s -> %s", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func newTurboCmd() *cobra.Command {
	var outPath string
	var sigma, a, b, eps, alpha float64
	var kLag int

	cmd := &cobra.Command{
		Use:   "turbo [raw-csv]",
		Short: "Derive the full invariant set from a raw channel",
		Long: `Run the invariant pipeline over a calibrated raw channel and emit a
weld-ready audit CSV with SPC flags. Calibration comes from the file's
a/b columns unless --a/--b override them.

Example: umcp turbo raw.csv --out audit.csv --sigma 0.8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.NewTurboService().Run(app.TurboRequest{
				CSVPath: args[0],
				OutPath: outPath,
				Sigma:   sigma,
				Params:  invariants.Params{A: a, B: b, Eps: eps, K: kLag, Alpha: alpha},
			})
			if err != nil {
				return err
			}
			logger.Info("turbo %s: %d rows -> %s", args[0], len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "audit.csv", "Audit CSV output path")
	cmd.Flags().Float64Var(&sigma, "sigma", 1.0, "Baseline standard deviation for SPC overlays")
	cmd.Flags().Float64Var(&a, "a", 0, "Calibration offset override")
	cmd.Flags().Float64Var(&b, "b", 0, "Calibration scale override (0 keeps the file calibration)")
	cmd.Flags().Float64Var(&eps, "epsilon", 0, "Log guard epsilon (0 uses the default)")
	cmd.Flags().IntVar(&kLag, "k-lag", 0, "Curvature lag window (0 uses the default)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Curvature damping (0 uses the default)")

	return cmd
}

func newPlaygroundCmd() *cobra.Command {
	var channel, outPath string
	var a, b, eps float64
	var kLag int

	cmd := &cobra.Command{
		Use:   "playground [data-csv]",
		Short: "Summarize one channel through the invariant pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc := app.NewPlaygroundService(cfg.ResolveGates())
			summary, err := svc.Run(app.PlaygroundRequest{
				CSVPath: args[0],
				Channel: channel,
				Params:  invariants.Params{A: a, B: b, Eps: eps, K: kLag},
				OutPath: outPath,
			})
			if err != nil {
				return err
			}
			logger.Info("playground %s[%s]: n=%d mean_omega=%.6g",
				args[0], channel, summary.Samples, summary.MeanOmega)
			if outPath == "" {
				return printJSON(cmd, summary)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&channel, "channel", "", "Channel column name")
	cmd.PersistentFlags().Float64Var(&a, "a", 0, "Frozen calibration intercept")
	cmd.PersistentFlags().Float64Var(&b, "b", 1, "Frozen calibration scale (must be positive)")
	cmd.Flags().StringVar(&outPath, "out", "", "Summary JSON path (stdout when empty)")
	cmd.Flags().Float64Var(&eps, "epsilon", 0, "Log guard epsilon (0 uses the default)")
	cmd.Flags().IntVar(&kLag, "k-lag", 0, "Curvature lag window (0 uses the default)")

	cmd.AddCommand(newSweepCmd(&channel, &a, &b))

	return cmd
}

func newSweepCmd(channel *string, a, b *float64) *cobra.Command {
	var epsGrid []float64
	var kGrid []int
	var outPath string

	cmd := &cobra.Command{
		Use:   "sweep [data-csv]",
		Short: "Evaluate a parameter grid over (epsilon, K)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc := app.NewPlaygroundService(cfg.ResolveGates())
			points, err := svc.Sweep(cmd.Context(), app.SweepRequest{
				CSVPath: args[0],
				Channel: *channel,
				Base:    invariants.Params{A: *a, B: *b},
				EpsGrid: epsGrid,
				KGrid:   kGrid,
				OutPath: outPath,
			})
			if err != nil {
				return err
			}
			logger.Info("sweep %s: %d grid points", args[0], len(points))
			if outPath == "" {
				return printJSON(cmd, points)
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&epsGrid, "eps-grid", []float64{1e-8, 1e-6, 1e-4}, "Epsilon grid values")
	cmd.Flags().IntSliceVar(&kGrid, "k-grid", []int{2, 3, 5}, "K lag grid values")
	cmd.Flags().StringVar(&outPath, "out", "", "Sweep JSON path (stdout when empty)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port, reportDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only report inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ui.NewServer(ui.Config{
				Port:      port,
				ReportDir: reportDir,
			})
			if err != nil {
				return err
			}
			logger.Info("serving reports from %s on http://localhost:%s", reportDir, port)
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "8080", "Listen port")
	cmd.Flags().StringVar(&reportDir, "reports", ".", "Directory holding report JSON files")

	return cmd
}

// parseColumn maps a CLI column name onto the audit schema.
func parseColumn(name string) (audit.Column, error) {
	switch strings.ToLower(name) {
	case "kappa":
		return audit.ColKappa, nil
	case "u":
		return audit.ColU, nil
	case "c":
		return audit.ColC, nil
	case "tau_r", "tau":
		return audit.ColTauR, nil
	case "omega":
		return audit.ColOmega, nil
	case "ic":
		return audit.ColIC, nil
	}
	return "", core.NewColumnMissingError(name)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
