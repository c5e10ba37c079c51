package core

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBatchValidate(t *testing.T) {
	report := sampleBatch().Validate()

	want := ValidationReport{
		TotalAnalyzed:    5,
		DiscrepancyCount: 2,
		Unmatched:        1,
		Discrepancies: []Discrepancy{
			{DocumentNumber: "200", RecordedCode: "1102", ExpectedDigit: '2', OperationNature: "COMPRA"},
			{DocumentNumber: "300", RecordedCode: "5405", ExpectedDigit: '6', OperationNature: "VENDA DE MERCADORIA"},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAll_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		headers         []DocumentHeader
		items           []LineItem
		wantTotal       int
		wantDiscrepancy int
	}{
		{
			name: "matching internal sale",
			headers: []DocumentHeader{
				{Number: "100", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP", Scope: "1 - OPERAÇÃO INTERNA"},
			},
			items:           []LineItem{{Number: "100", RecordedCode: "5102"}},
			wantTotal:       1,
			wantDiscrepancy: 0,
		},
		{
			name: "interstate purchase recorded as internal",
			headers: []DocumentHeader{
				{Number: "200", Nature: "COMPRA", IssuerJurisdiction: "SP", RecipientJurisdiction: "RJ"},
			},
			items:           []LineItem{{Number: "200", RecordedCode: "1102"}},
			wantTotal:       1,
			wantDiscrepancy: 1,
		},
		{
			name:            "item without header",
			headers:         nil,
			items:           []LineItem{{Number: "999", RecordedCode: "5102"}},
			wantTotal:       1,
			wantDiscrepancy: 0,
		},
		{
			name:            "empty items",
			headers:         sampleTables().Headers,
			items:           nil,
			wantTotal:       0,
			wantDiscrepancy: 0,
		},
		{
			name: "empty recorded code is a discrepancy",
			headers: []DocumentHeader{
				{Number: "1", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP"},
			},
			items:           []LineItem{{Number: "1", RecordedCode: ""}},
			wantTotal:       1,
			wantDiscrepancy: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAll(tt.headers, tt.items)
			if got.TotalAnalyzed != tt.wantTotal {
				t.Errorf("TotalAnalyzed = %d, want %d", got.TotalAnalyzed, tt.wantTotal)
			}
			if got.DiscrepancyCount != tt.wantDiscrepancy {
				t.Errorf("DiscrepancyCount = %d, want %d", got.DiscrepancyCount, tt.wantDiscrepancy)
			}
			if len(got.Discrepancies) != got.DiscrepancyCount {
				t.Errorf("len(Discrepancies) = %d, DiscrepancyCount = %d", len(got.Discrepancies), got.DiscrepancyCount)
			}
		})
	}
}

func TestValidateAll_FirstHeaderWins(t *testing.T) {
	headers := []DocumentHeader{
		{Number: "7", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP"},
		{Number: "7", Nature: "COMPRA", IssuerJurisdiction: "SP", RecipientJurisdiction: "RJ"},
	}
	items := []LineItem{{Number: "7", RecordedCode: "5102"}}

	if got := ValidateAll(headers, items); got.DiscrepancyCount != 0 {
		t.Errorf("DiscrepancyCount = %d, want 0 (first header is internal sale)", got.DiscrepancyCount)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	b := sampleBatch()
	first, err := json.Marshal(b.Validate())
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(b.Validate())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestValidate_PreservesItemOrder(t *testing.T) {
	headers := []DocumentHeader{
		{Number: "b", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP"},
		{Number: "a", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP"},
	}
	items := []LineItem{
		{Number: "b", RecordedCode: "6102"},
		{Number: "a", RecordedCode: "6102"},
		{Number: "b", RecordedCode: "1102"},
	}

	got := ValidateAll(headers, items)
	var order []string
	for _, d := range got.Discrepancies {
		order = append(order, d.DocumentNumber+":"+d.RecordedCode)
	}
	want := []string{"b:6102", "a:6102", "b:1102"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("discrepancy order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationReport_Truncated(t *testing.T) {
	r := ValidationReport{TotalAnalyzed: 20}
	for i := 0; i < 15; i++ {
		r.Discrepancies = append(r.Discrepancies, Discrepancy{DocumentNumber: "x"})
	}
	r.DiscrepancyCount = len(r.Discrepancies)

	got := r.Truncated(10)
	if len(got.Discrepancies) != 10 {
		t.Errorf("len = %d, want 10", len(got.Discrepancies))
	}
	if got.DiscrepancyCount != 15 {
		t.Errorf("DiscrepancyCount = %d, want 15", got.DiscrepancyCount)
	}
	if rest := r.Remaining(10); rest != 5 {
		t.Errorf("Remaining = %d, want 5", rest)
	}
	if all := r.Truncated(0); len(all.Discrepancies) != 15 {
		t.Errorf("Truncated(0) len = %d, want 15", len(all.Discrepancies))
	}
}

func TestRecordedDigit(t *testing.T) {
	tests := []struct {
		code string
		want Digit
	}{
		{"5102", '5'},
		{"", DigitUnknown},
		{"x", 'x'},
	}
	for _, tt := range tests {
		if got := RecordedDigit(tt.code); got != tt.want {
			t.Errorf("RecordedDigit(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestValidateDocument(t *testing.T) {
	b := sampleBatch()

	check, ok := b.ValidateDocument(" 300 ")
	if !ok {
		t.Fatal("ValidateDocument(300) not found")
	}
	if check.Classification.Digit != '6' {
		t.Errorf("expected digit = %s, want 6", check.Classification.Digit)
	}
	if len(check.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(check.Items))
	}
	if !check.Items[0].Correct || check.Items[1].Correct {
		t.Errorf("item verdicts = %v, %v; want true, false", check.Items[0].Correct, check.Items[1].Correct)
	}
	if check.Correct() {
		t.Error("Correct() = true, want false")
	}

	if _, ok := b.ValidateDocument("999"); ok {
		t.Error("ValidateDocument(999) found, want missing")
	}
}
