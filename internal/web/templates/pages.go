package templates

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/a-h/templ"
)

// OverviewData feeds the overview page.
type OverviewData struct {
	LoadedAt time.Time
	Summary  core.Summary
}

// Overview shows the loaded batch: counts, top jurisdictions and scopes.
func Overview(d OverviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.printf(`<section><h1>Lote %s</h1><dl>`, e(d.Summary.BatchID))
		p.printf(`<dt>Origem</dt><dd>%s</dd>`, e(d.Summary.Source))
		p.printf(`<dt>Carregado em</dt><dd>%s</dd>`, e(d.LoadedAt.Format(time.RFC3339)))
		p.printf(`<dt>Notas</dt><dd>%d</dd>`, d.Summary.Headers)
		p.printf(`<dt>Itens</dt><dd>%d</dd>`, d.Summary.Items)
		p.printf(`<dt>CFOPs</dt><dd>%d</dd></dl></section>`, d.Summary.ReferenceCodes)

		p.printf(`<section><h2>UF do emitente</h2>`)
		countTable(p, "UF", d.Summary.TopIssuers)
		p.printf(`</section><section><h2>Tipo de operação</h2>`)
		countTable(p, "Tipo", d.Summary.Scopes)
		p.printf(`</section><section><h2>Substituir lote</h2>%s</section>`, uploadForm)
		return p.err
	})
}

func countTable(p *page, label string, entries []core.CountEntry) {
	p.printf(`<table><thead><tr><th>%s</th><th>Notas</th></tr></thead><tbody>`, e(label))
	for _, c := range entries {
		value := c.Value
		if value == "" {
			value = "(vazio)"
		}
		p.printf(`<tr><td>%s</td><td>%d</td></tr>`, e(value), c.Count)
	}
	p.printf(`</tbody></table>`)
}

// ReportData feeds the validation report page.
type ReportData struct {
	BatchID string
	Report  core.ValidationReport
	Limit   int
}

// Report shows the validation outcome with the first Limit discrepancies.
func Report(d ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		r := d.Report
		p.printf(`<section><h1>Validação de CFOP</h1><dl>`)
		p.printf(`<dt>Lote</dt><dd>%s</dd>`, e(d.BatchID))
		p.printf(`<dt>Total de itens analisados</dt><dd>%d</dd>`, r.TotalAnalyzed)
		p.printf(`<dt>Divergências encontradas</dt><dd>%d</dd>`, r.DiscrepancyCount)
		p.printf(`<dt>Itens sem cabeçalho</dt><dd>%d</dd></dl>`, r.Unmatched)

		if r.DiscrepancyCount == 0 {
			p.printf(`<p class="ok">Todos os CFOPs estão corretos.</p></section>`)
			return p.err
		}

		p.printf(`<table><thead><tr><th>Nota</th><th>CFOP</th><th>Esperado</th><th>Natureza da operação</th></tr></thead><tbody>`)
		for _, x := range r.Truncated(d.Limit).Discrepancies {
			p.printf(`<tr><td>%s</td><td class="bad">%s</td><td>%s</td><td>%s</td></tr>`,
				e(x.DocumentNumber), e(x.RecordedCode), e(x.ExpectedDigit.Mask()), e(x.OperationNature))
		}
		p.printf(`</tbody></table>`)
		if rest := r.Remaining(d.Limit); rest > 0 {
			p.printf(`<p>... e mais %d divergências.</p>`, rest)
		}
		p.printf(`<p><a href="/api/validation/export.xlsx">Baixar planilha</a></p></section>`)
		return p.err
	})
}
