// Package fence discards results of superseded asynchronous requests.
//
// Every request takes a sequence number from a Sequencer when it is issued.
// When it completes, its result may be applied only if that number is still
// the latest one issued by the same Sequencer.
package fence

import "sync/atomic"

// Sequencer issues monotonically increasing sequence numbers for one
// category of requests. The zero value is ready to use.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number, superseding every earlier one.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether seq is the most recently issued number.
func (s *Sequencer) IsLatest(seq uint64) bool {
	return s.latest.Load() == seq
}

// Latest returns the most recently issued number, zero if none.
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}
