package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Start while another accumulation is in flight.
var ErrBusy = errors.New("a streaming reply is already in flight")

// Session owns the lifecycle of at most one in-flight accumulation. It is the
// explicit handle the caller creates, uses and disposes: Start rejects a
// second concurrent stream, Cancel aborts the current one, Finish releases the
// slot. Fragments arriving after Cancel are dropped by the accumulator via
// context cancellation.
type Session struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	active bool
}

// NewSession creates an idle session handle.
func NewSession() *Session {
	return &Session{}
}

// Start claims the in-flight slot and returns a context for the accumulation.
// Returns ErrBusy if a stream is already running.
func (s *Session) Start(parent context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.active = true
	return ctx, nil
}

// Finish releases the in-flight slot. Safe to call when idle.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.active = false
}

// Cancel aborts the current accumulation, if any. The slot is released; late
// fragments fail the accumulator's context check and never reach the caller.
func (s *Session) Cancel() {
	s.Finish()
}

// Active reports whether an accumulation is in flight.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
