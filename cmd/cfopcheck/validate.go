package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/export"
)

var validateFlags struct {
	limit             int
	all               bool
	format            string
	xlsx              string
	failOnDiscrepancy bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the operation code of every line item",
	Long: `Validate joins every line item to its document header, infers the
expected leading digit of the operation code and lists the items whose
recorded code disagrees.

Examples:
  # Text report with the first 10 discrepancies
  cfopcheck validate --dir ./2024-01

  # Full JSON report
  cfopcheck validate --all --format json

  # Spreadsheet with every discrepancy; exit 2 when any exist
  cfopcheck validate --xlsx divergencias.xlsx --fail-on-discrepancy`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	f := validateCmd.Flags()
	f.IntVarP(&validateFlags.limit, "limit", "n", 0, "discrepancies to list (default REPORT_DISCREPANCY_LIMIT)")
	f.BoolVar(&validateFlags.all, "all", false, "list every discrepancy")
	f.StringVarP(&validateFlags.format, "format", "f", "text", "output format: text, json")
	f.StringVar(&validateFlags.xlsx, "xlsx", "", "also write every discrepancy to this XLSX file")
	f.BoolVar(&validateFlags.failOnDiscrepancy, "fail-on-discrepancy", false, "exit with status 2 when discrepancies exist")
}

type validateOutput struct {
	BatchID string `json:"batch_id"`
	Source  string `json:"source"`
	core.ValidationReport
	Remaining int `json:"remaining"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateFlags.format != "text" && validateFlags.format != "json" {
		return fmt.Errorf("invalid --format %q: must be text or json", validateFlags.format)
	}

	limit := validateFlags.limit
	if limit <= 0 {
		limit = cfg.Batch.DiscrepancyLimit
	}
	if validateFlags.all {
		limit = 0
	}

	return withBatch(cmd, func(svc *core.Service, _ *core.Batch) error {
		report, b, err := svc.Validate()
		if err != nil {
			return err
		}

		if validateFlags.xlsx != "" {
			if err := writeXLSX(validateFlags.xlsx, b.ID(), report); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		switch validateFlags.format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(validateOutput{
				BatchID:          b.ID(),
				Source:           b.Source(),
				ValidationReport: report.Truncated(limit),
				Remaining:        report.Remaining(limit),
			}); err != nil {
				return err
			}
		default:
			fmt.Fprint(out, core.FormatValidationReport(report, limit))
		}

		if validateFlags.failOnDiscrepancy && report.DiscrepancyCount > 0 {
			return &statusError{
				code: exitDiscrepancies,
				err:  fmt.Errorf("%d divergências encontradas", report.DiscrepancyCount),
			}
		}
		return nil
	})
}

func writeXLSX(path, batchID string, report core.ValidationReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteValidationReport(f, batchID, report); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
