//go:build !unix

package ffmpeg

import "os"

func suspend(p *os.Process) error {
	return ErrPauseUnsupported
}

func resume(p *os.Process) error {
	return ErrPauseUnsupported
}
