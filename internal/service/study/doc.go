// Package study implements the study workflow on top of the scheduling
// algorithm: building daily queues, recording answers transactionally,
// running interactive sessions and the card and deck maintenance operations.
//
// All persistence goes through the store interfaces, and every multi-write
// operation runs inside a single transaction via the TxRunner. The package
// never touches the database driver directly, which keeps it testable with
// in-memory fakes.
package study
