package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/cfop/internal/schema"
)

// fakeRows serves string cells; a nil cell scans as SQL NULL.
type fakeRows struct {
	data [][]*string
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		txt, ok := d.(*pgtype.Text)
		if !ok {
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
		if row[i] == nil {
			*txt = pgtype.Text{}
			continue
		}
		*txt = pgtype.Text{String: *row[i], Valid: true}
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.data[r.pos-1]
	out := make([]any, len(row))
	for i, c := range row {
		if c != nil {
			out[i] = *c
		}
	}
	return out, nil
}

// fakeDB answers queries by the table named in the FROM clause.
type fakeDB struct {
	tables  map[string][][]*string
	queries []string
	err     error
}

func (db *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, sql)
	if db.err != nil {
		return nil, db.err
	}
	for name, rows := range db.tables {
		if strings.Contains(sql, "FROM "+name+" ") {
			return &fakeRows{data: rows}, nil
		}
	}
	return nil, &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
}

func cells(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		if values[i] == "<null>" {
			continue
		}
		out[i] = &values[i]
	}
	return out
}

func TestSelectSQL(t *testing.T) {
	got := selectSQL("fiscal.nfs_itens", []string{schema.ColNumber, schema.ColCode})
	want := `SELECT "NÚMERO", "CFOP" FROM "fiscal"."nfs_itens" ORDER BY ctid`
	if got != want {
		t.Errorf("selectSQL() = %s, want %s", got, want)
	}
}

func TestLoadPostgres(t *testing.T) {
	db := &fakeDB{tables: map[string][][]*string{
		`"nfs_cabecalho"`: {
			cells("100", "VENDA", "SP", "sp", "1 - OPERAÇÃO INTERNA", "<null>"),
			cells(" 200 ", "COMPRA", "Minas Gerais", "RJ", "<null>", "<null>"),
		},
		`"nfs_itens"`: {
			cells("100", "5102"),
			cells("200", "1102"),
		},
		`"cfop"`: {
			cells("5102", "Venda"),
		},
	}}

	res, err := LoadPostgres(context.Background(), db, TableNames{})
	if err != nil {
		t.Fatalf("LoadPostgres() error = %v", err)
	}
	if len(db.queries) != 3 {
		t.Errorf("ran %d queries, want 3", len(db.queries))
	}

	h := res.Tables.Headers
	if len(h) != 2 {
		t.Fatalf("len(headers) = %d, want 2", len(h))
	}
	if h[0].RecipientJurisdiction != "sp" || h[0].AccessKey != "" {
		t.Errorf("header[0] = %+v", h[0])
	}
	if h[1].Number != "200" || h[1].IssuerJurisdiction != "Minas Gerais" || h[1].Scope != "" {
		t.Errorf("header[1] = %+v", h[1])
	}

	report := res.Batch("postgres").Validate()
	if report.TotalAnalyzed != 2 || report.DiscrepancyCount != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestLoadPostgres_Errors(t *testing.T) {
	if _, err := LoadPostgres(context.Background(), nil, TableNames{}); !errors.Is(err, ErrSourceNotConfigured) {
		t.Errorf("nil db error = %v", err)
	}

	db := &fakeDB{tables: map[string][][]*string{}}
	_, err := LoadPostgres(context.Background(), db, TableNames{Headers: "missing"})
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "42P01" {
		t.Fatalf("error = %v, want wrapped PgError", err)
	}
	if !strings.Contains(err.Error(), "SQLSTATE 42P01") {
		t.Errorf("error %q lacks SQLSTATE", err)
	}

	db = &fakeDB{err: errors.New("dial tcp: connection refused")}
	if _, err := LoadPostgres(context.Background(), db, TableNames{}); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error = %v, want connection refused", err)
	}
}
