package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpinnerFastOperationNotShown(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Saving...")
	s.Start()
	s.Stop()

	if s.Shown() {
		t.Error("spinner should not be shown for a fast operation")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSpinnerSlowOperationShown(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Saving...")
	s.Start()
	time.Sleep(spinnerDelay + 100*time.Millisecond)
	s.Stop()

	if !s.Shown() {
		t.Fatal("spinner should be shown for a slow operation")
	}
	if !strings.Contains(buf.String(), "Saving...") {
		t.Errorf("output should contain message, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("Stop should clear the line")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Testing...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerParentCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &buf, "Testing...")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after parent cancel")
	}
}

func TestWithSpinnerReturnsError(t *testing.T) {
	want := errors.New("boom")
	if err := withSpinner(context.Background(), "Saving...", func() error { return want }); err != want {
		t.Errorf("withSpinner() = %v, want %v", err, want)
	}
	if err := withSpinner(context.Background(), "Saving...", func() error { return nil }); err != nil {
		t.Errorf("withSpinner() = %v, want nil", err)
	}
}
