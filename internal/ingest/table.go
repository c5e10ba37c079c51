package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/schema"
)

// ErrEmptyFile is returned for a table without a header row.
var ErrEmptyFile = errors.New("empty file")

// MaxWarningsPerTable caps the warnings kept for one table. The total is
// still counted.
const MaxWarningsPerTable = 200

// Warning is a malformed cell that was loaded as-is.
type Warning struct {
	Table  core.TableName `json:"table"`
	Line   int            `json:"line"`
	Column string         `json:"column"`
	Value  string         `json:"value,omitempty"`
	Reason string         `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s line %d: %s: %s", w.Table, w.Line, w.Column, w.Reason)
}

// TableStats describes how one table was read.
type TableStats struct {
	Rows      int      `json:"rows"`
	Encoding  Encoding `json:"encoding,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
	Warnings  int      `json:"warnings"`
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas. Spreadsheets saved with a pt-BR locale use ';'.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// table is a parsed CSV file with its header index.
type table struct {
	name     core.TableName
	idx      schema.HeaderIndex
	specs    map[string]schema.FieldSpec
	known    map[string]bool
	header   []string
	rows     [][]string
	lines    []int
	warnings []Warning
	stats    TableStats
}

// readTable decodes and parses one CSV table, checks its columns against
// specs and validates every row.
func readTable(name core.TableName, r io.Reader, specs []schema.FieldSpec) (*table, error) {
	data, enc, err := ReadText(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	delim := sniffDelimiter(data)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: invalid csv: %w", name, err)
	}

	idx, err := schema.ValidateHeaders(header, specs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	t := &table{
		name:   name,
		idx:    idx,
		specs:  specsByName(specs),
		known:  schema.KnownColumns(specs),
		header: header,
		stats:  TableStats{Encoding: enc, Delimiter: string(delim)},
	}
	validator := schema.NewRowValidator(specs, idx)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: invalid csv: %w", name, err)
		}
		if blankRow(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
		t.warn(line, validator.ValidateRow(row))
	}

	t.stats.Rows = len(t.rows)
	return t, nil
}

func (t *table) warn(line int, errs []schema.ValidationError) {
	for _, e := range errs {
		t.stats.Warnings++
		if len(t.warnings) >= MaxWarningsPerTable {
			continue
		}
		t.warnings = append(t.warnings, Warning{
			Table:  t.name,
			Line:   line,
			Column: e.Field,
			Value:  e.Value,
			Reason: e.Message,
		})
	}
}

// cell returns the cleaned value of a column in row i.
func (t *table) cell(i int, column string) string {
	if spec, ok := t.specs[strings.ToLower(column)]; ok {
		return spec.Value(t.rows[i], t.idx)
	}
	return t.idx.Cell(t.rows[i], column)
}

func specsByName(specs []schema.FieldSpec) map[string]schema.FieldSpec {
	out := make(map[string]schema.FieldSpec, len(specs))
	for _, spec := range specs {
		out[strings.ToLower(spec.Name)] = spec
	}
	return out
}

// extra collects the non-empty cells of columns the specs do not declare.
func (t *table) extra(i int) map[string]string {
	var out map[string]string
	row := t.rows[i]
	for pos, name := range t.header {
		clean := schema.UnwrapCell(name)
		if clean == "" || t.known[strings.ToLower(clean)] || pos >= len(row) {
			continue
		}
		v := schema.CleanCell(row[pos])
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[clean] = v
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
