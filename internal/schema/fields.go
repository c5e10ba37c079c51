package schema

import (
	"strings"
)

// FieldType represents the expected shape of a column value.
type FieldType int

const (
	FieldText FieldType = iota
	FieldIdentifier
	FieldCode
	FieldJurisdiction
	FieldAccessKey
)

// FieldSpec defines the rules for a single input column.
type FieldSpec struct {
	Name       string    // Column header name as it appears in the source file
	Type       FieldType // Expected value shape
	Required   bool      // Column must exist in the header row
	AllowEmpty bool      // Empty cells are accepted even when Required
}

// Unwraps reports whether cells of this column are stripped of spreadsheet
// quoting. Only identifier-like columns are; free text is kept as written.
func (s FieldSpec) Unwraps() bool {
	switch s.Type {
	case FieldIdentifier, FieldCode, FieldAccessKey:
		return true
	}
	return false
}

// Value returns the spec's cell in row: trimmed, and unwrapped when the
// column holds an identifier.
func (s FieldSpec) Value(row []string, idx HeaderIndex) string {
	v := idx.Cell(row, s.Name)
	if s.Unwraps() {
		v = UnwrapCell(v)
	}
	return v
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(UnwrapCell(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Has reports whether the column exists in the index.
func (h HeaderIndex) Has(name string) bool {
	_, ok := h[strings.ToLower(name)]
	return ok
}

// Cell returns the trimmed value of the named column, or "" when the column
// is absent or the row is short.
func (h HeaderIndex) Cell(row []string, name string) string {
	pos, ok := h[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// CleanCell trims surrounding whitespace.
func CleanCell(s string) string {
	return strings.TrimSpace(s)
}

// UnwrapCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, the Excel formula prefix (="...") and
// surrounding quotes.
func UnwrapCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
