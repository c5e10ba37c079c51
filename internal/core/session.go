package core

import (
	"errors"
	"sync/atomic"
)

// ErrNoBatch is returned when an operation needs a batch and none is loaded.
var ErrNoBatch = errors.New("no batch loaded")

// Session holds the active batch for a long-running process. Replacing the
// batch swaps the whole snapshot; callers that already hold the previous
// *Batch keep reading it unchanged.
type Session struct {
	current atomic.Pointer[Batch]
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Replace installs b as the active batch and returns the previous one
// (nil if none).
func (s *Session) Replace(b *Batch) *Batch {
	return s.current.Swap(b)
}

// Discard removes the active batch and returns it.
func (s *Session) Discard() *Batch {
	return s.current.Swap(nil)
}

// Current returns the active batch.
func (s *Session) Current() (*Batch, bool) {
	b := s.current.Load()
	return b, b != nil
}

// Require returns the active batch or ErrNoBatch.
func (s *Session) Require() (*Batch, error) {
	b := s.current.Load()
	if b == nil {
		return nil, ErrNoBatch
	}
	return b, nil
}
