package recording

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/models"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/killallgit/audionote/pkg/ffmpeg"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

var errEmptyRecording = errors.New("capture wrote no audio")

// State is the recording session state
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Capturer is the platform audio capture resource
type Capturer interface {
	Prepare(ctx context.Context, path string, format ffmpeg.CaptureFormat) error
	Start() error
	Stop() error
	Release() error
}

// Result is the outcome of a finished recording
type Result struct {
	Path     string
	Duration time.Duration
	Bytes    int64
	Size     string
}

// Seconds returns the whole recorded seconds
func (r Result) Seconds() int64 {
	return int64(r.Duration / time.Second)
}

// Apply writes duration, path and size to note together
func (r Result) Apply(note *models.Note) {
	note.AudioLength = r.Seconds()
	note.FilePath = r.Path
	note.Size = r.Size
}

// Session drives one capture resource through IDLE and RECORDING
type Session struct {
	capturer     Capturer
	dir          string
	format       ffmpeg.CaptureFormat
	now          func() time.Time
	tickInterval time.Duration
	onTick       func(string)

	mu    sync.Mutex
	state State
	path  string
	watch *Stopwatch
	stop  chan struct{}
	ticks conc.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithDirectory sets where recordings are written
func WithDirectory(dir string) Option {
	return func(s *Session) { s.dir = dir }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

// WithTickHandler receives the formatted elapsed time while recording
func WithTickHandler(fn func(string)) Option {
	return func(s *Session) { s.onTick = fn }
}

func WithFormat(format ffmpeg.CaptureFormat) Option {
	return func(s *Session) { s.format = format }
}

// NewSession creates an idle recording session
func NewSession(capturer Capturer, opts ...Option) *Session {
	s := &Session{
		capturer:     capturer,
		dir:          os.TempDir(),
		format:       ffmpeg.DefaultCaptureFormat(),
		now:          time.Now,
		tickInterval: time.Second,
		onTick:       func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.format.Extension == "" {
		s.format.Extension = ffmpeg.DefaultCaptureFormat().Extension
	}
	s.watch = NewStopwatch(s.now)
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Path returns the file of the current or last recording
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *Session) Elapsed() time.Duration {
	return s.watch.Elapsed()
}

// Start begins capturing to a new file named after the current time
func (s *Session) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", apperrors.InvalidState("recorder", s.state.String())
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.Storage("create recordings directory", err)
	}

	path, err := reserveFile(s.dir, s.now().UnixMilli(), s.format.Extension)
	if err != nil {
		return "", apperrors.Storage("create recording file", err)
	}

	if err := s.capturer.Prepare(ctx, path, s.format); err != nil {
		_ = s.capturer.Release()
		_ = os.Remove(path)
		return "", apperrors.DeviceUnavailable("microphone", err)
	}
	if err := s.capturer.Start(); err != nil {
		_ = s.capturer.Release()
		_ = os.Remove(path)
		return "", apperrors.DeviceUnavailable("microphone", err)
	}

	s.state = StateRecording
	s.path = path
	s.watch.Reset()
	s.watch.Start()
	s.startTicks()

	logrus.WithField("path", path).Info("Recording started")
	return path, nil
}

// reserveFile creates an empty <millis><ext> file, adding a -N suffix when
// another session already owns that name. The capture process overwrites it.
func reserveFile(dir string, millis int64, ext string) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		name := fmt.Sprintf("%d%s", millis, ext)
		if attempt > 0 {
			name = fmt.Sprintf("%d-%d%s", millis, attempt, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("no free recording name for %d%s", millis, ext)
}

func (s *Session) startTicks() {
	stop := make(chan struct{})
	s.stop = stop
	interval := s.tickInterval
	onTick := s.onTick
	watch := s.watch

	onTick(FormatElapsed(0))
	s.ticks.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				onTick(FormatElapsed(watch.Elapsed()))
			}
		}
	})
}

// Stop ends the capture and returns what was recorded. A result of zero
// seconds carries no size. When the recording cannot be read the result has
// no duration.
func (s *Session) Stop() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return Result{}, apperrors.InvalidState("recorder", s.state.String())
	}
	return s.finishLocked()
}

func (s *Session) finishLocked() (Result, error) {
	close(s.stop)
	s.ticks.Wait()

	if err := s.capturer.Stop(); err != nil {
		logrus.WithError(err).WithField("path", s.path).Warn("Capture did not stop cleanly")
	}
	if err := s.capturer.Release(); err != nil {
		logrus.WithError(err).Warn("Failed to release capture resource")
	}

	elapsed := s.watch.Stop()
	s.state = StateIdle

	result := Result{
		Path:     s.path,
		Duration: elapsed.Truncate(time.Second),
	}
	if result.Seconds() <= 0 {
		return result, nil
	}

	info, err := os.Stat(s.path)
	if err == nil && info.Size() == 0 {
		_ = os.Remove(s.path)
		err = errEmptyRecording
	}
	if err != nil {
		return Result{Path: s.path}, apperrors.Storage("read recording size", err)
	}
	result.Bytes = info.Size()
	result.Size = FormatSize(info.Size())

	logrus.WithFields(logrus.Fields{
		"path":     s.path,
		"duration": result.Seconds(),
		"size_mb":  result.Size,
	}).Info("Recording stopped")
	return result, nil
}

// Close releases the capture resource regardless of state
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		_, err := s.finishLocked()
		return err
	}
	return s.capturer.Release()
}
