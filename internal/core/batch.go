package core

import (
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Batch is an immutable snapshot of the three tables. All queries and
// validation runs read from a Batch; a new upload produces a new Batch
// rather than modifying an existing one.
type Batch struct {
	id       string
	source   string
	loadedAt time.Time

	headers   []DocumentHeader
	items     []LineItem
	reference []ReferenceEntry

	// first header position per document number
	headerByNumber map[string]int
	// first reference position per code
	referenceByCode map[string]int
}

// NewBatch copies the tables into a new snapshot and indexes them.
// source describes where the tables came from (a path, "upload", "postgres").
func NewBatch(t Tables, source string) *Batch {
	b := &Batch{
		id:              uuid.New().String(),
		source:          source,
		loadedAt:        time.Now().UTC(),
		headers:         make([]DocumentHeader, len(t.Headers)),
		items:           make([]LineItem, len(t.Items)),
		reference:       make([]ReferenceEntry, len(t.Reference)),
		headerByNumber:  make(map[string]int, len(t.Headers)),
		referenceByCode: make(map[string]int, len(t.Reference)),
	}

	for i, h := range t.Headers {
		h.Extra = maps.Clone(h.Extra)
		b.headers[i] = h
		if _, seen := b.headerByNumber[h.Number]; !seen {
			b.headerByNumber[h.Number] = i
		}
	}
	for i, it := range t.Items {
		it.Extra = maps.Clone(it.Extra)
		b.items[i] = it
	}
	for i, r := range t.Reference {
		b.reference[i] = r
		if _, seen := b.referenceByCode[r.Code]; !seen {
			b.referenceByCode[r.Code] = i
		}
	}

	return b
}

// ID returns the batch identifier.
func (b *Batch) ID() string { return b.id }

// Source returns where the batch was loaded from.
func (b *Batch) Source() string { return b.source }

// LoadedAt returns when the batch was created.
func (b *Batch) LoadedAt() time.Time { return b.loadedAt }

// Headers returns a copy of the header table.
func (b *Batch) Headers() []DocumentHeader {
	out := make([]DocumentHeader, len(b.headers))
	copy(out, b.headers)
	return out
}

// Items returns a copy of the line-item table.
func (b *Batch) Items() []LineItem {
	out := make([]LineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Reference returns a copy of the reference table.
func (b *Batch) Reference() []ReferenceEntry {
	out := make([]ReferenceEntry, len(b.reference))
	copy(out, b.reference)
	return out
}

// Count returns the cardinality of a table. Unknown names count as zero.
func (b *Batch) Count(table TableName) int {
	switch table {
	case TableHeaders:
		return len(b.headers)
	case TableItems:
		return len(b.items)
	case TableReference:
		return len(b.reference)
	default:
		return 0
	}
}

// header returns the first header with the given number.
func (b *Batch) header(number string) (DocumentHeader, bool) {
	i, ok := b.headerByNumber[number]
	if !ok {
		return DocumentHeader{}, false
	}
	return b.headers[i], true
}

// normalizeNumber coerces a caller-supplied document number to the form
// used as the join key.
func normalizeNumber(s string) string {
	return strings.TrimSpace(s)
}
