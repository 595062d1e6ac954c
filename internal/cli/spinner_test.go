package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Testing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Testing...") {
		t.Errorf("spinner output %q should contain the message", buf.String())
	}
	if !s.Cancelled() {
		t.Error("Stop cancels the spinner context")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &bytes.Buffer{}, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &bytes.Buffer{}, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled due to timeout
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &bytes.Buffer{}, "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerHooks(t *testing.T) {
	s := newSpinnerTo(context.Background(), &bytes.Buffer{}, "Starting")
	h := &spinnerHooks{spinner: s, total: 2}

	h.OnRenderStart(context.Background(), "spot.bmp", "circle")
	if got, want := s.Message(), "Rendering spot.bmp (circle) [1/2]"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	h.OnRenderStart(context.Background(), "wave.bmp", "lattice2d")
	if got, want := s.Message(), "Rendering wave.bmp (lattice2d) [2/2]"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
