package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// elapsed time is shown once an operation runs longer than this
	spinnerShowElapsed = 2 * time.Second
)

// Spinner animates a status line on a terminal while a long operation runs.
// The status can be changed while spinning, which the analyze command uses
// to show which null sample is being drawn. A cancelled context clears the
// line and ends the animation.
type Spinner struct {
	w     io.Writer
	ctx   context.Context
	start time.Time

	mu     sync.Mutex
	status string
	width  int // runes of the last line written

	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// newSpinner creates a spinner writing to w. It does nothing until Start.
func newSpinner(ctx context.Context, w io.Writer, status string) *Spinner {
	return &Spinner{
		w:       w,
		ctx:     ctx,
		status:  status,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.start = time.Now()
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetStatus replaces the text next to the spinner.
func (s *Spinner) SetStatus(format string, args ...any) {
	s.mu.Lock()
	s.status = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		<-s.stopped
	}
	s.clear()
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	printSuccess(format, args...)
}

// StopWithError stops the spinner and prints a failure line.
func (s *Spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}

// Cancelled reports whether the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) line(frame string) string {
	text := s.status
	if elapsed := time.Since(s.start); elapsed >= spinnerShowElapsed {
		text += fmt.Sprintf(" (%s)", elapsed.Truncate(time.Second))
	}
	return styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line(frame)
	pad := max(0, s.width-len([]rune(text)))
	fmt.Fprintf(s.w, "\r%s%s", text, strings.Repeat(" ", pad))
	s.width = len([]rune(text))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}
