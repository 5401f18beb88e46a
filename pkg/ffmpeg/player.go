package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// Player plays an audio file with a headless ffplay process
type Player struct {
	ffplayPath string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan error
	path   string
	paused bool
}

// PlaybackArgs returns the ffplay arguments for path
func PlaybackArgs(path string) []string {
	return []string{"-nodisp", "-autoexit", "-hide_banner", "-loglevel", "error", path}
}

// Prepare checks the file and configures the playback process
func (p *Player) Prepare(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return NewProcessingError("playback_prepare", path, err, "")
	}
	if info.IsDir() || info.Size() == 0 {
		return NewProcessingError("playback_prepare", path, ErrInvalidAudioFile, "")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return ErrAlreadyRunning
	}
	if _, err := exec.LookPath(p.ffplayPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFplayNotFound, p.ffplayPath)
	}

	cmd := exec.Command(p.ffplayPath, PlaybackArgs(path)...)
	p.stderr.Reset()
	cmd.Stderr = &p.stderr
	p.cmd = cmd
	p.path = path
	p.paused = false
	return nil
}

// Start launches the prepared playback process
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		return ErrNotPrepared
	}
	if p.done != nil {
		return ErrAlreadyRunning
	}
	if err := p.cmd.Start(); err != nil {
		return NewProcessingError("playback_start", p.path, err, p.stderr.String())
	}

	done := make(chan error, 1)
	cmd := p.cmd
	go func() { done <- cmd.Wait() }()
	p.done = done
	return nil
}

// Pause suspends the playback process
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return ErrNotPrepared
	}
	if p.paused {
		return nil
	}
	if err := suspend(p.cmd.Process); err != nil {
		return err
	}
	p.paused = true
	return nil
}

// Resume continues a paused playback process
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return ErrNotPrepared
	}
	if !p.paused {
		return nil
	}
	if err := resume(p.cmd.Process); err != nil {
		return err
	}
	p.paused = false
	return nil
}

// Stop ends playback
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

// Release ends playback and forgets the prepared process
func (p *Player) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.cmd = nil
	return nil
}

func (p *Player) stopLocked() {
	if p.done == nil {
		return
	}
	if p.paused {
		_ = resume(p.cmd.Process)
		p.paused = false
	}
	_ = p.cmd.Process.Kill()
	<-p.done
	p.done = nil
	p.cmd = nil
}
