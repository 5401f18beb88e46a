package playback

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/services/recording"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// State is the playback session state
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Player is the platform audio output resource
type Player interface {
	Prepare(ctx context.Context, path string) error
	Start() error
	Pause() error
	Resume() error
	Stop() error
	Release() error
}

// Session plays one recording with a countdown that stops playback when it
// reaches zero
type Session struct {
	player       Player
	now          func() time.Time
	tickInterval time.Duration
	onTick       func(string)
	onFinish     func()

	mu        sync.Mutex
	state     State
	path      string
	remaining time.Duration
	resumedAt time.Time
	gen       int
	halt      chan struct{}
	countdown conc.WaitGroup
}

// Option configures a Session
type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

// WithTickHandler receives the remaining time as HH:MM:SS
func WithTickHandler(fn func(string)) Option {
	return func(s *Session) { s.onTick = fn }
}

// WithFinishHandler is called when the countdown stops playback on its own
func WithFinishHandler(fn func()) Option {
	return func(s *Session) { s.onFinish = fn }
}

// NewSession creates a stopped playback session
func NewSession(player Player, opts ...Option) *Session {
	s := &Session{
		player:       player,
		now:          time.Now,
		tickInterval: time.Second,
		onTick:       func(string) {},
		onFinish:     func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the countdown value
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *Session) remainingLocked() time.Duration {
	r := s.remaining
	if s.state == StatePlaying {
		r -= s.now().Sub(s.resumedAt)
	}
	if r < 0 {
		return 0
	}
	return r
}

// Start plays path and counts down from duration
func (s *Session) Start(ctx context.Context, path string, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return apperrors.InvalidState("player", s.state.String())
	}
	if duration <= 0 {
		return apperrors.InvalidInput("duration", "nothing has been recorded")
	}
	if _, err := os.Stat(path); err != nil {
		return apperrors.NotFound("audio file", path)
	}

	if err := s.player.Prepare(ctx, path); err != nil {
		_ = s.player.Release()
		return apperrors.DeviceUnavailable("speaker", err)
	}
	if err := s.player.Start(); err != nil {
		_ = s.player.Release()
		return apperrors.DeviceUnavailable("speaker", err)
	}

	s.path = path
	s.remaining = duration
	s.state = StatePlaying
	s.startCountdownLocked()

	logrus.WithFields(logrus.Fields{"path": path, "duration": duration}).Info("Playback started")
	return nil
}

// Pause suspends playback and the countdown, keeping the position
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return apperrors.InvalidState("player", s.state.String())
	}
	if err := s.player.Pause(); err != nil {
		return apperrors.DeviceUnavailable("speaker", err)
	}
	s.remaining = s.remainingLocked()
	s.state = StatePaused
	s.haltCountdownLocked()
	return nil
}

// Resume continues a paused playback
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return apperrors.InvalidState("player", s.state.String())
	}
	if err := s.player.Resume(); err != nil {
		return apperrors.DeviceUnavailable("speaker", err)
	}
	s.state = StatePlaying
	s.startCountdownLocked()
	return nil
}

// Stop releases the player and the countdown
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// Toggle applies the play button: start when stopped, pause when playing
// (or stop when the countdown already ran out), resume when paused
func (s *Session) Toggle(ctx context.Context, path string, duration time.Duration) (State, error) {
	switch s.State() {
	case StatePlaying:
		if s.Remaining() <= 0 {
			return StateStopped, s.Stop()
		}
		if err := s.Pause(); err != nil {
			return s.State(), err
		}
	case StatePaused:
		if err := s.Resume(); err != nil {
			return s.State(), err
		}
	default:
		if err := s.Start(ctx, path, duration); err != nil {
			return s.State(), err
		}
	}
	return s.State(), nil
}

// Close stops playback regardless of state and waits for the countdown
func (s *Session) Close() error {
	s.mu.Lock()
	var err error
	if s.state != StateStopped {
		err = s.stopLocked()
	} else {
		err = s.player.Release()
	}
	s.mu.Unlock()

	s.countdown.Wait()
	return err
}

func (s *Session) stopLocked() error {
	if s.state == StateStopped {
		return nil
	}
	s.haltCountdownLocked()
	s.state = StateStopped
	s.remaining = 0

	stopErr := s.player.Stop()
	if err := s.player.Release(); err != nil && stopErr == nil {
		stopErr = err
	}
	logrus.WithField("path", s.path).Info("Playback stopped")
	if stopErr != nil {
		return apperrors.DeviceUnavailable("speaker", stopErr)
	}
	return nil
}

func (s *Session) haltCountdownLocked() {
	s.gen++
	if s.halt != nil {
		close(s.halt)
		s.halt = nil
	}
}

func (s *Session) startCountdownLocked() {
	s.haltCountdownLocked()
	gen := s.gen
	halt := make(chan struct{})
	s.halt = halt
	s.resumedAt = s.now()
	s.onTick(recording.FormatClock(s.remaining))

	s.countdown.Go(func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-halt:
				return
			case <-ticker.C:
			}
			remaining, ok := s.current(gen)
			if !ok {
				return
			}
			s.onTick(recording.FormatClock(remaining))
			if remaining <= 0 {
				s.expire(gen)
				return
			}
		}
	})
}

// current reports the countdown when gen is still the running countdown
func (s *Session) current(gen int) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != StatePlaying {
		return 0, false
	}
	return s.remainingLocked(), true
}

func (s *Session) expire(gen int) {
	s.mu.Lock()
	if s.gen != gen || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	if err := s.stopLocked(); err != nil {
		logrus.WithError(err).Warn("Failed to stop finished playback")
	}
	finish := s.onFinish
	s.mu.Unlock()

	finish()
}
