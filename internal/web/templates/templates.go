// Package templates renders the HTML pages of the web UI as templ components.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// e escapes text for HTML element and attribute content.
func e(s string) string {
	return templ.EscapeString(s)
}

// page is a small buffered writer that remembers the first error.
type page struct {
	w   io.Writer
	err error
}

func (p *page) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *page) render(ctx context.Context, c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}

// Layout wraps body in the shared page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.printf(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`)
		p.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf(`<title>%s · Validador CFOP</title>`, e(title))
		p.printf(`<style>%s</style></head><body>`, stylesheet)
		p.printf(`<header><nav><a href="/">Lote</a> <a href="/report">Validação</a></nav></header><main>`)
		p.render(ctx, body)
		p.printf(`</main></body></html>`)
		return p.err
	})
}

// ErrorAlert renders an error fragment with its code and suggested action.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.printf(`<div class="alert" role="alert"><strong>%s</strong>`, e(message))
		if action != "" {
			p.printf(`<p>%s</p>`, e(action))
		}
		p.printf(`<small>%s</small></div>`, e(code))
		return p.err
	})
}

// EmptyState tells the user that no batch is loaded and how to load one.
func EmptyState() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.printf(`<section class="empty"><h1>Nenhum lote carregado</h1>`)
		p.printf(`<p>Envie os arquivos de cabeçalho, itens e CFOP para começar.</p>`)
		p.printf(`%s</section>`, uploadForm)
		return p.err
	})
}

const uploadForm = `<form method="post" action="/api/batch" enctype="multipart/form-data">` +
	`<label>Arquivo ZIP <input type="file" name="zip" accept=".zip"></label>` +
	`<p>ou</p>` +
	`<label>Cabeçalho <input type="file" name="headers" accept=".csv"></label>` +
	`<label>Itens <input type="file" name="items" accept=".csv"></label>` +
	`<label>CFOP <input type="file" name="reference" accept=".csv"></label>` +
	`<button type="submit">Carregar</button></form>`

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2933}` +
	`header{background:#243b53;padding:.75rem 1.5rem}header a{color:#fff;margin-right:1rem;text-decoration:none}` +
	`main{padding:1.5rem;max-width:960px}table{border-collapse:collapse;width:100%}` +
	`th,td{border-bottom:1px solid #d9e2ec;padding:.4rem;text-align:left}` +
	`.alert{background:#ffe3e3;border:1px solid #e12d39;padding:1rem;margin:1rem 0}` +
	`.ok{color:#0e7c3a}.bad{color:#ab091e}dl{display:grid;grid-template-columns:max-content auto;gap:.25rem 1rem}` +
	`form label{display:block;margin:.5rem 0}`
