// Package srs implements the spaced-repetition scheduling algorithm as a pure
// function over a card's state and its deck configuration.
//
// The scheduler performs no I/O and reads no clocks: callers pass the review
// time in, which makes every transition deterministic and directly testable.
// Persistence, daily counters and the review log are the responsibility of
// the study service; this package only decides what the card's next state is.
package srs
