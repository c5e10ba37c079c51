package core

import "testing"

func TestInferLeadingDigit(t *testing.T) {
	tests := []struct {
		name      string
		nature    string
		issuer    string
		recipient string
		scope     string
		want      Digit
	}{
		{
			name:   "internal sale",
			nature: "VENDA", issuer: "SP", recipient: "SP", scope: ScopeMarkerInternal,
			want: '5',
		},
		{
			name:   "purchase with equal states and no marker",
			nature: "COMPRA", issuer: "SP", recipient: "SP", scope: "",
			want: '1',
		},
		{
			name:   "purchase across states",
			nature: "COMPRA", issuer: "SP", recipient: "RJ", scope: "",
			want: '2',
		},
		{
			name:   "sale across states",
			nature: "venda de mercadoria", issuer: "MG", recipient: "BA", scope: "",
			want: '6',
		},
		{
			name:   "internal marker wins over state mismatch",
			nature: "VENDA", issuer: "SP", recipient: "RJ", scope: ScopeMarkerInternal,
			want: '5',
		},
		{
			name:   "equal states win over interstate marker",
			nature: "ENTRADA", issuer: "SP", recipient: "SP", scope: ScopeMarkerInterstate,
			want: '1',
		},
		{
			name:   "equal states win over foreign marker",
			nature: "VENDA", issuer: "SP", recipient: "SP", scope: ScopeMarkerForeign,
			want: '5',
		},
		{
			name:   "return of sale is inbound",
			nature: "DEVOLUÇÃO DE VENDA", issuer: "SP", recipient: "RJ", scope: "",
			want: '2',
		},
		{
			name:   "abbreviated return is inbound",
			nature: "DEV. MERCADORIA", issuer: "SP", recipient: "SP", scope: "",
			want: '1',
		},
		{
			name:   "unknown nature takes outbound column",
			nature: "TRANSFERENCIA", issuer: "SP", recipient: "RJ", scope: "",
			want: '6',
		},
		{
			name:   "empty nature takes outbound column",
			nature: "", issuer: "", recipient: "", scope: "",
			want: '5',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferLeadingDigit(tt.nature, tt.issuer, tt.recipient, tt.scope)
			if got != tt.want {
				t.Errorf("InferLeadingDigit(%q, %q, %q, %q) = %s, want %s",
					tt.nature, tt.issuer, tt.recipient, tt.scope, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		nature        string
		issuer        string
		recipient     string
		wantDirection Direction
		wantScope     Scope
	}{
		{"purchase", "COMPRA", "SP", "SP", DirectionInbound, ScopeInternal},
		{"sale", "VENDA", "SP", "RJ", DirectionOutbound, ScopeInterstate},
		{"shipment", "REMESSA PARA CONSERTO", "SP", "RJ", DirectionOutbound, ScopeInterstate},
		{"ambiguous nature resolves inbound", "DEVOLUÇÃO DE VENDA", "SP", "SP", DirectionInbound, ScopeInternal},
		{"no keyword", "OUTRAS", "SP", "SP", DirectionNone, ScopeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.nature, tt.issuer, tt.recipient, "")
			if got.Direction != tt.wantDirection {
				t.Errorf("Direction = %s, want %s", got.Direction, tt.wantDirection)
			}
			if got.Scope != tt.wantScope {
				t.Errorf("Scope = %s, want %s", got.Scope, tt.wantScope)
			}
		})
	}
}

func TestInferLeadingDigit_Deterministic(t *testing.T) {
	first := InferLeadingDigit("DEVOLUÇÃO DE VENDA", "SP", "RJ", "")
	for i := 0; i < 100; i++ {
		if got := InferLeadingDigit("DEVOLUÇÃO DE VENDA", "SP", "RJ", ""); got != first {
			t.Fatalf("run %d = %s, want %s", i, got, first)
		}
	}
}

func TestClassifyHeader(t *testing.T) {
	h := DocumentHeader{Nature: "COMPRA", IssuerJurisdiction: "SP", RecipientJurisdiction: "RJ"}
	if got := ClassifyHeader(h).Digit; got != '2' {
		t.Errorf("ClassifyHeader().Digit = %s, want 2", got)
	}
}

func TestDigit_Text(t *testing.T) {
	var d Digit
	if err := d.UnmarshalText([]byte("5")); err != nil || d != '5' {
		t.Errorf("UnmarshalText(5) = %s, %v", d, err)
	}
	if err := d.UnmarshalText([]byte("55")); err != nil || d != DigitUnknown {
		t.Errorf("UnmarshalText(55) = %s, %v", d, err)
	}
	if got := Digit('6').Mask(); got != "6xxx" {
		t.Errorf("Mask() = %q, want 6xxx", got)
	}
}
