// Package store defines the persistence interfaces the study engine consumes,
// the DBTX abstraction over connections and transactions, and the sentinel
// errors shared by all implementations. Concrete backends live under
// internal/platform.
package store
