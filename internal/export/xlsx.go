// Package export renders validation results as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/cfop/internal/core"
)

// Sheet names of the validation workbook.
const (
	SheetSummary       = "Resumo"
	SheetDiscrepancies = "Divergências"
)

var discrepancyColumns = []string{"NÚMERO", "CFOP", "ESPERADO", "NATUREZA DA OPERAÇÃO"}

// ValidationWorkbook builds a workbook with a summary sheet and one row per
// discrepancy, in report order. The caller must Close the file.
func ValidationWorkbook(batchID string, r core.ValidationReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	summary := [][]any{
		{"Lote", batchID},
		{"Total de itens analisados", r.TotalAnalyzed},
		{"Divergências encontradas", r.DiscrepancyCount},
		{"Itens sem cabeçalho", r.Unmatched},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetDiscrepancies); err != nil {
		f.Close()
		return nil, err
	}
	rows := make([][]any, 0, len(r.Discrepancies)+1)
	header := make([]any, len(discrepancyColumns))
	for i, c := range discrepancyColumns {
		header[i] = c
	}
	rows = append(rows, header)
	for _, d := range r.Discrepancies {
		rows = append(rows, []any{d.DocumentNumber, d.RecordedCode, d.ExpectedDigit.Mask(), d.OperationNature})
	}
	if err := writeRows(f, SheetDiscrepancies, rows); err != nil {
		f.Close()
		return nil, err
	}

	if err := styleHeader(f, SheetDiscrepancies, len(discrepancyColumns)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(SheetDiscrepancies, "A", "C", 14); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(SheetDiscrepancies, "D", "D", 48); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteValidationReport writes the workbook to w.
func WriteValidationReport(w io.Writer, batchID string, r core.ValidationReport) error {
	f, err := ValidationWorkbook(batchID, r)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
