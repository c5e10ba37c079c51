package ingest

import (
	"io"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/schema"
)

// headerFrom builds a header from a column getter.
func headerFrom(get func(string) string) core.DocumentHeader {
	return core.DocumentHeader{
		Number:                get(schema.ColNumber),
		Nature:                get(schema.ColNature),
		IssuerJurisdiction:    get(schema.ColIssuerUF),
		RecipientJurisdiction: get(schema.ColRecipientUF),
		Scope:                 get(schema.ColScope),
		AccessKey:             get(schema.ColAccessKey),
	}
}

func itemFrom(get func(string) string) core.LineItem {
	return core.LineItem{
		Number:       get(schema.ColNumber),
		RecordedCode: get(schema.ColCode),
	}
}

func referenceFrom(get func(string) string) core.ReferenceEntry {
	return core.ReferenceEntry{
		Code:        get(schema.ColCode),
		Description: get(schema.ColDescription),
	}
}

// ReadHeaders parses the document header table.
func ReadHeaders(r io.Reader) ([]core.DocumentHeader, []Warning, error) {
	t, err := readTable(core.TableHeaders, r, schema.HeaderFieldSpecs)
	if err != nil {
		return nil, nil, err
	}
	return t.headers(), t.warnings, nil
}

// ReadItems parses the line-item table. Optional descriptive columns
// (item number, product description) end up in Extra with every other
// undeclared column.
func ReadItems(r io.Reader) ([]core.LineItem, []Warning, error) {
	t, err := readTable(core.TableItems, r, schema.ItemFieldSpecs)
	if err != nil {
		return nil, nil, err
	}
	return t.items(), t.warnings, nil
}

// ReadReference parses the CFOP reference table.
func ReadReference(r io.Reader) ([]core.ReferenceEntry, []Warning, error) {
	t, err := readTable(core.TableReference, r, schema.ReferenceFieldSpecs)
	if err != nil {
		return nil, nil, err
	}
	return t.reference(), t.warnings, nil
}

func (t *table) headers() []core.DocumentHeader {
	out := make([]core.DocumentHeader, len(t.rows))
	for i := range t.rows {
		h := headerFrom(func(col string) string { return t.cell(i, col) })
		h.Extra = t.extra(i)
		for _, col := range []string{schema.ColIssuerName, schema.ColRecipientDoc} {
			if v := t.cell(i, col); v != "" {
				if h.Extra == nil {
					h.Extra = make(map[string]string)
				}
				h.Extra[col] = v
			}
		}
		out[i] = h
	}
	return out
}

func (t *table) items() []core.LineItem {
	out := make([]core.LineItem, len(t.rows))
	for i := range t.rows {
		it := itemFrom(func(col string) string { return t.cell(i, col) })
		it.Extra = t.extra(i)
		for _, col := range []string{schema.ColItemNumber, schema.ColProductDesc} {
			if v := t.cell(i, col); v != "" {
				if it.Extra == nil {
					it.Extra = make(map[string]string)
				}
				it.Extra[col] = v
			}
		}
		out[i] = it
	}
	return out
}

func (t *table) reference() []core.ReferenceEntry {
	out := make([]core.ReferenceEntry, len(t.rows))
	for i := range t.rows {
		out[i] = referenceFrom(func(col string) string { return t.cell(i, col) })
	}
	return out
}
