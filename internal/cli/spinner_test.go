package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWithSpinnerReturnsResult(t *testing.T) {
	var buf bytes.Buffer
	want := errors.New("boom")

	err := withSpinner(context.Background(), &buf, "Rendering SVG...", func() error {
		time.Sleep(2 * spinnerInterval)
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("withSpinner() = %v, want %v", err, want)
	}
	if !strings.Contains(buf.String(), "Rendering SVG...") {
		t.Errorf("spinner never drew its message: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("spinner should leave a cleared line")
	}
}

func TestWithSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- withSpinner(ctx, &buf, "waiting", func() error {
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("withSpinner() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("withSpinner did not return after cancel")
	}
}

func TestWithSpinnerFastPath(t *testing.T) {
	var buf bytes.Buffer
	if err := withSpinner(context.Background(), &buf, "quick", func() error { return nil }); err != nil {
		t.Fatalf("withSpinner() = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Errorf("line not cleared: %q", buf.String())
	}
}
