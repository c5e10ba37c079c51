package core

// report_text.go renders engine results as plain text for terminals and
// for callers that relay results as text (the tool layer).

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatValidationReport renders a report, listing at most limit
// discrepancies followed by a count of the ones left out.
func FormatValidationReport(r ValidationReport, limit int) string {
	var b strings.Builder

	b.WriteString("VALIDAÇÃO COMPLETA\n")
	fmt.Fprintf(&b, "Total de itens analisados: %d\n", r.TotalAnalyzed)
	fmt.Fprintf(&b, "Divergências encontradas: %d\n\n", r.DiscrepancyCount)

	if r.DiscrepancyCount == 0 {
		b.WriteString("✅ Todos os CFOPs estão corretos!\n")
		return b.String()
	}

	b.WriteString("ITENS COM DIVERGÊNCIA:\n")
	for _, d := range r.Truncated(limit).Discrepancies {
		fmt.Fprintf(&b, "- Nota %s: CFOP %s (esperado %s) - %s\n",
			d.DocumentNumber, d.RecordedCode, d.ExpectedDigit.Mask(), d.OperationNature)
	}
	if rest := r.Remaining(limit); rest > 0 {
		fmt.Fprintf(&b, "... e mais %d divergências.\n", rest)
	}
	return b.String()
}

// FormatHeaders renders headers as an aligned table.
func FormatHeaders(headers []DocumentHeader) string {
	return renderTable(
		[]string{"NÚMERO", "NATUREZA DA OPERAÇÃO", "UF EMITENTE", "UF DESTINATÁRIO", "DESTINO DA OPERAÇÃO", "CHAVE DE ACESSO"},
		len(headers),
		func(i int) []string {
			h := headers[i]
			return []string{h.Number, h.Nature, h.IssuerJurisdiction, h.RecipientJurisdiction, h.Scope, h.AccessKey}
		},
	)
}

// FormatItems renders line items as an aligned table.
func FormatItems(items []LineItem) string {
	return renderTable(
		[]string{"NÚMERO", "CFOP"},
		len(items),
		func(i int) []string {
			return []string{items[i].Number, items[i].RecordedCode}
		},
	)
}

// FormatReference renders reference entries as an aligned table.
func FormatReference(entries []ReferenceEntry) string {
	return renderTable(
		[]string{"CFOP", "DESCRIÇÃO"},
		len(entries),
		func(i int) []string {
			return []string{entries[i].Code, entries[i].Description}
		},
	)
}

// FormatAccessKey renders the fields of a decoded key.
func FormatAccessKey(k AccessKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chave: %s\n", k.Key)
	fmt.Fprintf(&b, "UF: %s\n", k.Jurisdiction)
	fmt.Fprintf(&b, "Ano/Mês: %s\n", k.YearMonth)
	fmt.Fprintf(&b, "CNPJ: %s\n", k.TaxpayerID)
	fmt.Fprintf(&b, "Modelo: %s\n", k.Model)
	fmt.Fprintf(&b, "Série: %s\n", k.Series)
	fmt.Fprintf(&b, "Número: %s\n", k.Number)
	fmt.Fprintf(&b, "Tipo de emissão: %s\n", k.EmissionType)
	fmt.Fprintf(&b, "Código numérico: %s\n", k.NumericCode)
	fmt.Fprintf(&b, "Dígito verificador: %s", k.CheckDigit)
	if !k.CheckDigitValid() {
		fmt.Fprintf(&b, " (esperado %s)", k.ExpectedCheckDigit())
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSummary renders a batch summary.
func FormatSummary(s Summary) string {
	rule := strings.Repeat("=", 60)
	var b strings.Builder

	b.WriteString(rule + "\nRELATÓRIO DE DADOS CARREGADOS\n" + rule + "\n\n")
	fmt.Fprintf(&b, "Notas Fiscais (Cabeçalho): %d\n", s.Headers)
	fmt.Fprintf(&b, "Total de Itens: %d\n", s.Items)
	fmt.Fprintf(&b, "Códigos CFOP cadastrados: %d\n\n", s.ReferenceCodes)

	if len(s.TopIssuers) > 0 {
		b.WriteString("Estados Emitentes:\n")
		for _, e := range s.TopIssuers {
			fmt.Fprintf(&b, "   - %s: %d notas\n", e.Value, e.Count)
		}
		b.WriteString("\n")
	}
	if len(s.Scopes) > 0 {
		b.WriteString("Tipos de Operação:\n")
		for _, e := range s.Scopes {
			fmt.Fprintf(&b, "   - %s: %d notas\n", e.Value, e.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// FormatDocumentCheck renders the per-item verdicts of one document.
func FormatDocumentCheck(c DocumentCheck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nota %s - %s\n", c.Header.Number, c.Header.Nature)
	fmt.Fprintf(&b, "Operação: %s, âmbito: %s, CFOP inferido: %s\n",
		c.Classification.Direction, c.Classification.Scope, c.Classification.Digit.Mask())

	if len(c.Items) == 0 {
		b.WriteString("Nenhum item encontrado para a nota.\n")
		return b.String()
	}
	for _, it := range c.Items {
		status := "CORRETO"
		if !it.Correct {
			status = "DIVERGENTE"
		}
		fmt.Fprintf(&b, "- CFOP informado %s: %s\n", it.Item.RecordedCode, status)
	}
	return b.String()
}

func renderTable(columns []string, rows int, row func(int) []string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for i := 0; i < rows; i++ {
		fmt.Fprintln(w, strings.Join(row(i), "\t"))
	}
	w.Flush()
	return b.String()
}
