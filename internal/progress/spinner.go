package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// eraseLine returns the cursor to column zero and clears the line.
const eraseLine = "\r\033[K"

// Spinner animates a single status line. Rendering happens on a ticker
// goroutine; Pause and Stop clear the line synchronously so the caller can
// print immediately after they return.
type Spinner struct {
	out      io.Writer
	interval time.Duration

	mu     sync.Mutex
	label  string
	frame  int
	active bool
	paused bool
	stop   chan struct{}
	done   chan struct{}
}

// NewSpinner returns a spinner writing to out. The caller is responsible
// for only using it on an interactive stream; New does that selection.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, interval: 120 * time.Millisecond}
}

// Start begins rendering, or updates the label when already running.
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
	if s.active {
		return
	}
	s.active = true
	s.paused = false
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Pause clears the current frame and suspends rendering.
func (s *Spinner) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.paused {
		return
	}
	s.paused = true
	fmt.Fprint(s.out, eraseLine)
}

// Resume continues rendering after a Pause.
func (s *Spinner) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.paused = false
}

// Stop ends rendering and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop, done := s.stop, s.done
	fmt.Fprint(s.out, eraseLine)
	s.mu.Unlock()

	close(stop)
	<-done
}

func (s *Spinner) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.paused {
		return
	}
	frame := frames[s.frame%len(frames)]
	s.frame++
	fmt.Fprintf(s.out, "%s%s %s", eraseLine, frame, s.label)
}
