// Package schema defines the column contract for the three fiscal tables:
// document headers, line items and the operation-code reference table.
//
// Column names are fixed keys taken from the source spreadsheets and are
// matched case-insensitively after cell cleanup. A missing required column
// is reported when a table is loaded, never later at lookup time.
package schema
