package ffmpeg

import (
	"fmt"
	"os/exec"
	"time"
)

// FFmpeg locates the ffmpeg, ffprobe and ffplay binaries
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	ffplayPath  string
	timeout     time.Duration
}

// New creates a new FFmpeg instance. timeout bounds metadata probes and how
// long a recording may take to finalize after stop.
func New(ffmpegPath, ffprobePath, ffplayPath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		ffplayPath:  ffplayPath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg, ffprobe and ffplay are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	if _, err := exec.LookPath(f.ffplayPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFplayNotFound, f.ffplayPath)
	}
	return nil
}

// NewRecorder returns a capture process driver
func (f *FFmpeg) NewRecorder() *Recorder {
	return &Recorder{ffmpegPath: f.ffmpegPath, stopTimeout: f.timeout}
}

// NewPlayer returns a playback process driver
func (f *FFmpeg) NewPlayer() *Player {
	return &Player{ffplayPath: f.ffplayPath}
}
