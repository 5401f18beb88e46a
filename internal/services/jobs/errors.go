package jobs

import "errors"

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrNoJobsAvailable = errors.New("no jobs available")
	ErrUnknownPolicy   = errors.New("unknown unique job policy")
	ErrUniqueKeyEmpty  = errors.New("unique key is required")
)
