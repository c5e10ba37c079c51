// Package core provides the operation-code inference and validation engine
// for Brazilian electronic invoices (NF-e).
//
// This package holds the domain logic independent of any UI or transport
// layer. The web server, the CLI and tests share it unchanged.
//
// # Batch
//
// A [Batch] is an immutable snapshot of three tables: document headers,
// line items and the CFOP reference table. A [Session] holds the current
// batch; loading a new one replaces it atomically and readers that already
// hold the previous batch keep a consistent view.
//
// # Inference
//
// The expected leading digit of an item's CFOP follows from its document
// header:
//
//	               inbound  outbound
//	internal          1        5
//	interstate        2        6
//	foreign           3        7
//
// Direction comes from keywords in the operation nature (ENTRADA, COMPRA,
// DEVOLUÇÃO, DEV). Scope comes from the destination field or, failing that,
// from comparing issuer and recipient states. See [Classify].
//
// # Validation
//
// [Batch.Validate] compares each item's recorded leading digit with the
// inferred one and returns a [ValidationReport]. Items whose document has
// no header count toward the total but are never reported.
//
// # Tools
//
// Every operation is also exposed through a [Toolset] so external
// dispatchers (HTTP, CLI, conversational agents) invoke the engine by
// name without reaching into the batch.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// See error_messages.go for the code reference.
package core
