package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/sirupsen/logrus"
)

// NoteLister lists every stored note
type NoteLister interface {
	GetAll(ctx context.Context) ([]models.Note, error)
}

// JobPurger deletes finished jobs past their retention
type JobPurger interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// Config controls what a sweep removes
type Config struct {
	RecordingsDir    string
	Extension        string
	MaxOrphanAge     time.Duration
	Interval         time.Duration
	JobRetentionDays int
}

// Result summarizes one sweep
type Result struct {
	RemovedFiles []string
	PurgedJobs   int64
}

// Service removes recordings no note refers to and purges old jobs
type Service struct {
	cfg   Config
	notes NoteLister
	jobs  JobPurger
	now   func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service. jobs may be nil.
func NewService(cfg Config, notes NoteLister, jobs JobPurger) *Service {
	if cfg.Extension == "" {
		cfg.Extension = ".3gp"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Service{cfg: cfg, notes: notes, jobs: jobs, now: time.Now}
}

// Start runs a sweep now and then every interval until ctx ends or Stop is called
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-ctx.Done():
				logrus.Info("Cleanup service stopped")
				return
			}
		}
	}()

	logrus.WithFields(logrus.Fields{
		"interval":       s.cfg.Interval,
		"max_orphan_age": s.cfg.MaxOrphanAge,
	}).Info("Cleanup service started")
}

// Stop stops the cleanup service and waits for a running sweep
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) sweep(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		logrus.WithError(err).Warn("Cleanup sweep failed")
	}
}

// RunOnce removes orphaned recordings and purges old jobs
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	var result Result

	removed, err := s.removeOrphans(ctx)
	result.RemovedFiles = removed
	if err != nil {
		return result, err
	}

	if s.jobs != nil && s.cfg.JobRetentionDays > 0 {
		purged, err := s.jobs.CleanupOldJobs(ctx, s.cfg.JobRetentionDays)
		if err != nil {
			return result, err
		}
		result.PurgedJobs = purged
	}
	return result, nil
}

func (s *Service) removeOrphans(ctx context.Context) ([]string, error) {
	if s.cfg.RecordingsDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.cfg.RecordingsDir); os.IsNotExist(err) {
		return nil, nil
	}

	all, err := s.notes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	referenced := make(map[string]bool, len(all))
	for _, n := range all {
		if n.FilePath != "" {
			referenced[filepath.Clean(n.FilePath)] = true
		}
	}

	cutoff := s.now().Add(-s.cfg.MaxOrphanAge)
	var removed []string

	err = filepath.Walk(s.cfg.RecordingsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files with errors
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), s.cfg.Extension) {
			return nil
		}
		if referenced[filepath.Clean(path)] || info.ModTime().After(cutoff) {
			return nil
		}

		logrus.WithField("path", path).Debug("Removing orphaned recording")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", path).Warn("Failed to remove orphaned recording")
			return nil
		}
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("walking recordings: %w", err)
	}

	if len(removed) > 0 {
		logrus.WithField("count", len(removed)).Info("Removed orphaned recordings")
	}
	return removed, nil
}
