package export

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/cfop/internal/core"
)

func TestWriteValidationReport(t *testing.T) {
	report := core.ValidationReport{
		TotalAnalyzed:    3,
		DiscrepancyCount: 2,
		Unmatched:        1,
		Discrepancies: []core.Discrepancy{
			{DocumentNumber: "200", RecordedCode: "1102", ExpectedDigit: '2', OperationNature: "COMPRA"},
			{DocumentNumber: "300", RecordedCode: "5405", ExpectedDigit: '6', OperationNature: "VENDA"},
		},
	}

	var buf bytes.Buffer
	if err := WriteValidationReport(&buf, "batch-1", report); err != nil {
		t.Fatalf("WriteValidationReport() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetDiscrepancies)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"NÚMERO", "CFOP", "ESPERADO", "NATUREZA DA OPERAÇÃO"},
		{"200", "1102", "2xxx", "COMPRA"},
		{"300", "5405", "6xxx", "VENDA"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("discrepancy rows mismatch (-want +got):\n%s", diff)
	}

	total, err := f.GetCellValue(SheetSummary, "B2")
	if err != nil {
		t.Fatal(err)
	}
	if total != "3" {
		t.Errorf("total analyzed cell = %q, want 3", total)
	}
	if id, _ := f.GetCellValue(SheetSummary, "B1"); id != "batch-1" {
		t.Errorf("batch id cell = %q", id)
	}
}

func TestValidationWorkbook_Empty(t *testing.T) {
	f, err := ValidationWorkbook("b", core.ValidationReport{Discrepancies: []core.Discrepancy{}})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetDiscrepancies)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %v, want header only", rows)
	}
}
