package ffmpeg

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrFFmpegNotFound    = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound   = errors.New("ffprobe binary not found")
	ErrFFplayNotFound    = errors.New("ffplay binary not found")
	ErrInvalidAudioFile  = errors.New("invalid or unsupported audio file")
	ErrProcessingTimeout = errors.New("audio processing timeout")
	ErrNotPrepared       = errors.New("process has not been prepared")
	ErrAlreadyRunning    = errors.New("process is already running")
	ErrPauseUnsupported  = errors.New("pausing playback is not supported on this platform")
)

// ProcessingError represents an error from an ffmpeg, ffprobe or ffplay process
type ProcessingError struct {
	Operation string // The operation that failed (e.g., "capture", "metadata_extraction")
	File      string // The file being processed
	Err       error  // The underlying error
	Stderr    string // stderr output from the process
}

func (e *ProcessingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg %s failed for %s: %v (stderr: %s)", e.Operation, e.File, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg %s failed for %s: %v", e.Operation, e.File, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError
func NewProcessingError(operation, file string, err error, stderr string) *ProcessingError {
	return &ProcessingError{
		Operation: operation,
		File:      file,
		Err:       err,
		Stderr:    stderr,
	}
}
