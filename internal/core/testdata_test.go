package core

const (
	validKey   = "35240112345678000199550010000001231000000019"
	invalidKey = "35240112345678000199550010000001231000000010"
)

// sampleTables is a small batch covering the common classification paths.
func sampleTables() Tables {
	return Tables{
		Headers: []DocumentHeader{
			{Number: "100", Nature: "VENDA", IssuerJurisdiction: "SP", RecipientJurisdiction: "SP", Scope: ScopeMarkerInternal, AccessKey: validKey},
			{Number: "200", Nature: "COMPRA", IssuerJurisdiction: "SP", RecipientJurisdiction: "RJ", Scope: "", AccessKey: "35240199999999000199550010000002001000000020"},
			{Number: "300", Nature: "VENDA DE MERCADORIA", IssuerJurisdiction: "MG", RecipientJurisdiction: "BA", Scope: ScopeMarkerInterstate, AccessKey: "31240188888888000199550010000003001000000030"},
		},
		Items: []LineItem{
			{Number: "100", RecordedCode: "5102"},
			{Number: "200", RecordedCode: "1102"},
			{Number: "999", RecordedCode: "5102"},
			{Number: "300", RecordedCode: "6102"},
			{Number: "300", RecordedCode: "5405"},
		},
		Reference: []ReferenceEntry{
			{Code: "1102", Description: "Compra para comercialização"},
			{Code: "2102", Description: "Compra para comercialização"},
			{Code: "5102", Description: "Venda de mercadoria adquirida de terceiros"},
			{Code: "5405", Description: "Venda de mercadoria com ST"},
			{Code: "6102", Description: "Venda de mercadoria adquirida de terceiros"},
		},
	}
}

func sampleBatch() *Batch {
	return NewBatch(sampleTables(), "test")
}
