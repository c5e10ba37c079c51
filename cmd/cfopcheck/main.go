// cfopcheck validates the operation codes (CFOP) of an invoice batch from
// the command line.
//
// The batch is read from a directory holding the three CSV files, from a
// ZIP archive containing them, or from PostgreSQL when DATABASE_URL is set.
//
// Usage:
//
//	# Validate the batch in the current directory
//	cfopcheck validate
//
//	# Validate an archive and fail CI when any code is wrong
//	cfopcheck validate --zip notas-2024-01.zip --fail-on-discrepancy
//
//	# Export every discrepancy to a spreadsheet
//	cfopcheck validate --dir ./2024-01 --xlsx divergencias.xlsx
//
//	# Explain one document
//	cfopcheck doc 12345
//
//	# Decode an access key (no batch needed)
//	cfopcheck decode 35240112345678000199550010000001231000000019
package main

func main() {
	Execute()
}
