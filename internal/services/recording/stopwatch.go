package recording

import (
	"sync"
	"time"
)

// Stopwatch measures elapsed time against an injectable clock
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

// NewStopwatch creates a stopped stopwatch
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

// Stop freezes the elapsed time
func (s *Stopwatch) Stop() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.elapsed += s.now().Sub(s.started)
		s.running = false
	}
	return s.elapsed
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.running = false
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}
