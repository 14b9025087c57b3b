package stream

import (
	"context"
	"errors"
	"testing"
)

func TestSessionSingleInFlight(t *testing.T) {
	s := NewSession()

	ctx, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if !s.Active() {
		t.Error("session should be active after Start")
	}

	if _, err := s.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}

	s.Finish()
	if s.Active() {
		t.Error("session should be idle after Finish")
	}
	if ctx.Err() == nil {
		t.Error("Finish must cancel the stream context")
	}

	// The slot is reusable
	if _, err := s.Start(context.Background()); err != nil {
		t.Errorf("Start after Finish failed: %v", err)
	}
}

func TestSessionCancelReleasesSlot(t *testing.T) {
	s := NewSession()

	ctx, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s.Cancel()
	if s.Active() {
		t.Error("session should be idle after Cancel")
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() = %v, want context.Canceled", ctx.Err())
	}
}

func TestSessionFinishWhenIdle(t *testing.T) {
	s := NewSession()
	s.Finish()
	s.Cancel()
	if s.Active() {
		t.Error("idle session must stay idle")
	}
}
