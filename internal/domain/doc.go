// Package domain defines the core scheduling entities: cards, per-deck
// configuration, daily counters and the append-only review log. Entities
// carry their own validation; all mutation of scheduling state happens
// through the srs package and the study service, never directly.
package domain
