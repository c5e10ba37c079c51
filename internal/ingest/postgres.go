package ingest

// postgres.go reads a batch from tables that mirror the CSV exports. The
// column names are the spreadsheet headers, quoted as identifiers.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/schema"
)

// ErrSourceNotConfigured is returned when a database load is requested
// without a connection.
var ErrSourceNotConfigured = errors.New("database source not configured")

// DBTX is the query surface shared by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TableNames are the (optionally schema-qualified) source tables.
type TableNames struct {
	Headers   string
	Items     string
	Reference string
}

// DefaultTableNames returns the table names used when none are configured.
func DefaultTableNames() TableNames {
	return TableNames{
		Headers:   "nfs_cabecalho",
		Items:     "nfs_itens",
		Reference: "cfop",
	}
}

var (
	headerColumns = []string{
		schema.ColNumber, schema.ColNature, schema.ColIssuerUF,
		schema.ColRecipientUF, schema.ColScope, schema.ColAccessKey,
	}
	itemColumns      = []string{schema.ColNumber, schema.ColCode}
	referenceColumns = []string{schema.ColCode, schema.ColDescription}
)

// selectSQL builds a SELECT over quoted column names, keeping table order
// by the physical row position.
func selectSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY ctid",
		strings.Join(quoted, ", "),
		pgx.Identifier(strings.Split(table, ".")).Sanitize())
}

// LoadPostgres reads the three tables through db.
func LoadPostgres(ctx context.Context, db DBTX, tables TableNames) (Result, error) {
	if db == nil {
		return Result{}, ErrSourceNotConfigured
	}
	d := DefaultTableNames()
	if tables.Headers == "" {
		tables.Headers = d.Headers
	}
	if tables.Items == "" {
		tables.Items = d.Items
	}
	if tables.Reference == "" {
		tables.Reference = d.Reference
	}

	var res Result
	var err error

	res.Tables.Headers, err = queryRows(ctx, db, tables.Headers, headerColumns, headerFrom)
	if err != nil {
		return Result{}, err
	}
	res.Tables.Items, err = queryRows(ctx, db, tables.Items, itemColumns, itemFrom)
	if err != nil {
		return Result{}, err
	}
	res.Tables.Reference, err = queryRows(ctx, db, tables.Reference, referenceColumns, referenceFrom)
	if err != nil {
		return Result{}, err
	}

	res.Stats = map[core.TableName]TableStats{
		core.TableHeaders:   {Rows: len(res.Tables.Headers)},
		core.TableItems:     {Rows: len(res.Tables.Items)},
		core.TableReference: {Rows: len(res.Tables.Reference)},
	}
	return res, nil
}

// queryRows scans every row of table into T. NULL cells read as "".
func queryRows[T any](ctx context.Context, db DBTX, table string, columns []string, build func(func(string) string) T) ([]T, error) {
	rows, err := db.Query(ctx, selectSQL(table, columns))
	if err != nil {
		return nil, describePgError(table, err)
	}
	defer rows.Close()

	cells := make([]pgtype.Text, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}
	get := func(col string) string {
		i, ok := pos[col]
		if !ok || !cells[i].Valid {
			return ""
		}
		return strings.TrimSpace(cells[i].String)
	}

	out := []T{}
	for rows.Next() {
		for i := range cells {
			cells[i] = pgtype.Text{}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", table, err)
		}
		out = append(out, build(get))
	}
	if err := rows.Err(); err != nil {
		return nil, describePgError(table, err)
	}
	return out, nil
}

// describePgError adds the server's error code to query failures.
func describePgError(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("query %s: %s (SQLSTATE %s): %w", table, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("query %s: %w", table, err)
}
