package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Recorder captures microphone audio to a file with an ffmpeg process
type Recorder struct {
	ffmpegPath  string
	stopTimeout time.Duration

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	done   chan error
	path   string
}

// CaptureArgs returns the ffmpeg arguments recording format into path
func CaptureArgs(path string, format CaptureFormat) []string {
	format = format.withDefaults()
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-y",
		"-f", format.InputFormat,
		"-i", format.Device,
		"-ac", strconv.Itoa(format.Channels),
		"-ar", strconv.Itoa(format.SampleRate),
		"-c:a", format.Codec,
		"-b:a", format.Bitrate,
		path,
	}
}

// Prepare configures the capture process for path
func (r *Recorder) Prepare(ctx context.Context, path string, format CaptureFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRunning
	}
	if _, err := exec.LookPath(r.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, r.ffmpegPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewProcessingError("capture_prepare", path, err, "")
	}

	cmd := exec.Command(r.ffmpegPath, CaptureArgs(path, format)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return NewProcessingError("capture_prepare", path, err, "")
	}
	r.stderr.Reset()
	cmd.Stderr = &r.stderr

	r.cmd = cmd
	r.stdin = stdin
	r.path = path
	return nil
}

// Start launches the prepared capture process
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return ErrNotPrepared
	}
	if r.done != nil {
		return ErrAlreadyRunning
	}
	if err := r.cmd.Start(); err != nil {
		return NewProcessingError("capture_start", r.path, err, r.stderr.String())
	}

	done := make(chan error, 1)
	cmd := r.cmd
	go func() { done <- cmd.Wait() }()
	r.done = done
	return nil
}

// Stop asks ffmpeg to finalize the file and waits for it to exit. The
// process is killed when it does not exit within the stop timeout.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done == nil {
		return ErrNotPrepared
	}

	// ffmpeg finishes writing the container when it reads q
	_, _ = io.WriteString(r.stdin, "q\n")
	_ = r.stdin.Close()

	timer := time.NewTimer(r.stopTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-r.done:
	case <-timer.C:
		_ = r.cmd.Process.Kill()
		<-r.done
		err = ErrProcessingTimeout
	}
	r.done = nil
	r.cmd = nil

	if err != nil {
		return NewProcessingError("capture_stop", r.path, err, r.stderr.String())
	}
	return nil
}

// Release kills a running capture and forgets the prepared process
func (r *Recorder) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		_ = r.cmd.Process.Kill()
		<-r.done
	}
	if r.stdin != nil {
		_ = r.stdin.Close()
	}
	r.cmd = nil
	r.stdin = nil
	r.done = nil
	return nil
}
