package core

import (
	"strconv"
	"testing"
)

// ============================================================================
// Inference Benchmarks
// ============================================================================

// BenchmarkClassify benchmarks the rule engine over the common header shapes.
// It runs once per line item during validation.
func BenchmarkClassify(b *testing.B) {
	cases := []DocumentHeader{
		{Nature: "VENDA DE MERCADORIA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP", Scope: ScopeMarkerInternal},
		{Nature: "COMPRA PARA COMERCIALIZAÇÃO", IssuerJurisdiction: "SP", RecipientJurisdiction: "RJ"},
		{Nature: "devolução de venda", IssuerJurisdiction: "MG", RecipientJurisdiction: "MG"},
		{Nature: "REMESSA PARA CONSERTO", IssuerJurisdiction: "PR", RecipientJurisdiction: "SC", Scope: ScopeMarkerInterstate},
		{Nature: "OUTRAS SAÍDAS", Scope: ScopeMarkerForeign},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, h := range cases {
			ClassifyHeader(h)
		}
	}
}

// ============================================================================
// Validation Benchmarks
// ============================================================================

// syntheticTables builds n documents with two items each; every tenth
// document carries a wrong code.
func syntheticTables(n int) Tables {
	t := Tables{
		Headers: make([]DocumentHeader, 0, n),
		Items:   make([]LineItem, 0, 2*n),
	}
	for i := 0; i < n; i++ {
		number := strconv.Itoa(100000 + i)
		t.Headers = append(t.Headers, DocumentHeader{
			Number:                number,
			Nature:                "VENDA",
			IssuerJurisdiction:    "SP",
			RecipientJurisdiction: "SP",
		})
		code := "5102"
		if i%10 == 0 {
			code = "6102"
		}
		t.Items = append(t.Items,
			LineItem{Number: number, RecordedCode: code},
			LineItem{Number: number, RecordedCode: "5405"},
		)
	}
	return t
}

// BenchmarkValidate_10k benchmarks a full validation of a month-sized batch.
func BenchmarkValidate_10k(b *testing.B) {
	batch := NewBatch(syntheticTables(10000), "bench")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := batch.Validate()
		if r.DiscrepancyCount != 1000 {
			b.Fatalf("DiscrepancyCount = %d", r.DiscrepancyCount)
		}
	}
}

// BenchmarkNewBatch benchmarks snapshot construction, paid once per load.
func BenchmarkNewBatch(b *testing.B) {
	t := syntheticTables(10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewBatch(t, "bench")
	}
}

// BenchmarkFindByAccessKeySubstring benchmarks the linear key scan.
func BenchmarkFindByAccessKeySubstring(b *testing.B) {
	t := syntheticTables(10000)
	for i := range t.Headers {
		t.Headers[i].AccessKey = "352401123456780001995500100" + t.Headers[i].Number + "10000000190"
	}
	batch := NewBatch(t, "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		batch.FindByAccessKeySubstring("109999")
	}
}
