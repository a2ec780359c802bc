package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the spinner goroutine and the test share a buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsStatus(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Sampling null distributions...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.SetStatus("hep random %s %d/%d", "modularity", 40, 500)
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Sampling null distributions...") {
		t.Errorf("initial status not drawn: %q", got)
	}
	if !strings.Contains(got, "hep random modularity 40/500") {
		t.Errorf("updated status not drawn: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared after Stop: %q", got)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Rendering svg...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStop(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.Stop()
		s.Stop()
		if s.Cancelled() {
			t.Error("Cancelled = true without cancellation")
		}
	})

	t.Run("BeforeStart", func(t *testing.T) {
		var out syncBuffer
		s := newSpinner(context.Background(), &out, "x")
		s.Stop()
		if out.String() != "" {
			t.Errorf("unstarted spinner wrote %q", out.String())
		}
	})

	t.Run("WithMessages", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.StopWithSuccess("rendered %d formats", 2)

		s = newSpinner(context.Background(), &syncBuffer{}, "y")
		s.Start()
		s.StopWithError("pdf: %s", "rsvg-convert not found")
	})
}
