package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// JobProcessor defines the interface for processing different job types
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.Job) error
	CanProcess(jobType models.JobType) bool
}

// knownJobTypes lists every job type a processor may claim
var knownJobTypes = []models.JobType{
	models.JobTypeReminderAlarm,
	models.JobTypeNoteNotification,
}

// Worker represents a background worker that processes jobs
type Worker struct {
	id           string
	jobService   jobs.Service
	processors   []JobProcessor
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	pollInterval time.Duration
}

// NewWorker creates a new worker instance
func NewWorker(id string, jobService jobs.Service, pollInterval time.Duration) *Worker {
	return &Worker{
		id:           id,
		jobService:   jobService,
		processors:   make([]JobProcessor, 0),
		stopChan:     make(chan struct{}),
		pollInterval: pollInterval,
	}
}

// RegisterProcessor registers a job processor
func (w *Worker) RegisterProcessor(processor JobProcessor) {
	w.processors = append(w.processors, processor)
}

// Start starts the worker in a goroutine
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the worker gracefully
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := logrus.WithField("worker", w.id)
	log.Debug("Worker starting")
	defer log.Debug("Worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			// drain everything that is due before waiting again
			for {
				processed, err := w.ProcessNext(ctx)
				if err != nil {
					log.WithError(err).Warn("Error processing job")
				}
				if !processed || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// supportedTypes returns the job types at least one processor handles
func (w *Worker) supportedTypes() []models.JobType {
	var supported []models.JobType
	for _, jobType := range knownJobTypes {
		for _, p := range w.processors {
			if p.CanProcess(jobType) {
				supported = append(supported, jobType)
				break
			}
		}
	}
	return supported
}

// ProcessNext claims and processes one due job. It reports whether a job was claimed.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	supportedTypes := w.supportedTypes()
	if len(supportedTypes) == 0 {
		return false, fmt.Errorf("no job processors registered")
	}

	job, err := w.jobService.ClaimNextJob(ctx, w.id, supportedTypes)
	if err != nil {
		if errors.Is(err, jobs.ErrNoJobsAvailable) {
			return false, nil
		}
		return false, err
	}

	var processor JobProcessor
	for _, p := range w.processors {
		if p.CanProcess(job.Type) {
			processor = p
			break
		}
	}

	if processor == nil {
		// claimed types come from the processors, so this is a registration bug
		if relErr := w.jobService.ReleaseJob(ctx, job.ID); relErr != nil {
			logrus.WithError(relErr).WithField("job_id", job.ID).Warn("Failed to release job")
		}
		return true, fmt.Errorf("no processor found for job type %s", job.Type)
	}

	if err := processor.ProcessJob(ctx, job); err != nil {
		if failErr := w.jobService.FailJob(ctx, job.ID, err); failErr != nil {
			logrus.WithError(failErr).WithField("job_id", job.ID).Warn("Failed to mark job as failed")
		}
		return true, fmt.Errorf("job %d processing failed: %w", job.ID, err)
	}

	if err := w.jobService.CompleteJob(ctx, job.ID); err != nil {
		return true, fmt.Errorf("job %d completion failed: %w", job.ID, err)
	}

	logrus.WithFields(logrus.Fields{"worker": w.id, "job_id": job.ID, "type": job.Type}).Debug("Job completed")
	return true, nil
}

// Drain processes due jobs until none are left and returns how many ran
func (w *Worker) Drain(ctx context.Context) (int, error) {
	var count int
	var errs []error
	for {
		processed, err := w.ProcessNext(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if !processed {
			return count, errors.Join(errs...)
		}
		count++
	}
}

// WorkerPool manages multiple workers
type WorkerPool struct {
	workers    []*Worker
	jobService jobs.Service
	mu         sync.RWMutex
	started    bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(jobService jobs.Service, workerCount int, pollInterval time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	pool := &WorkerPool{
		jobService: jobService,
		workers:    make([]*Worker, workerCount),
	}

	for i := 0; i < workerCount; i++ {
		workerID := fmt.Sprintf("worker-%d", i+1)
		pool.workers[i] = NewWorker(workerID, jobService, pollInterval)
	}

	return pool
}

// RegisterProcessor registers a processor with all workers
func (p *WorkerPool) RegisterProcessor(processor JobProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, worker := range p.workers {
		worker.RegisterProcessor(processor)
	}
}

// Start starts all workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	logrus.WithField("workers", len(p.workers)).Info("Starting worker pool")

	for _, worker := range p.workers {
		worker.Start(ctx)
	}

	p.started = true
	return nil
}

// Stop stops all workers gracefully
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	logrus.Info("Stopping worker pool")

	var wg conc.WaitGroup
	for _, worker := range p.workers {
		wg.Go(worker.Stop)
	}
	wg.Wait()

	p.started = false
}

// Drain runs due jobs on the first worker. Used by one-shot commands.
func (p *WorkerPool) Drain(ctx context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.workers[0].Drain(ctx)
}
