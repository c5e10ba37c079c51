// Package ingest loads the three tables of a batch (document headers, line
// items and the CFOP reference) from CSV files, zip archives or PostgreSQL.
//
// Column names follow the exported spreadsheets (see package schema). A
// missing required column fails the load; malformed cell values are kept
// and reported as warnings. State cells are stored as written, so a
// spelled-out or lower-case state compares unequal to its code.
package ingest
