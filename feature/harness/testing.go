package harness

import (
	"context"
	"testing"
	"time"

	"cmis-harness/core/logger"
)

// StartForTest creates a harness logging through t, ensures it runs for
// desired and stops it when the test ends. Options.Logger is replaced.
func StartForTest(t testing.TB, opts Options, desired Desired) *Harness {
	t.Helper()

	opts.Logger = logger.NewTesting(t)
	h, err := New(opts)
	if err != nil {
		t.Fatalf("harness: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Close(ctx); err != nil {
			t.Errorf("harness close: %v", err)
		}
	})

	if err := h.EnsureRunning(context.Background(), t.Name(), desired); err != nil {
		t.Fatalf("harness: %v", err)
	}
	return h
}
