package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// JobStatus reports the last outcome of a job.
type JobStatus struct {
	Name      string     `json:"name"`
	Interval  string     `json:"interval"`
	LastRunAt *time.Time `json:"last_run_at"`
	LastError *string    `json:"last_error"`
}

// Scheduler runs registered jobs on their intervals until stopped.
type Scheduler struct {
	jobs   []Job
	status map[string]*JobStatus
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a scheduler bound to the parent context. Stopping
// the parent stops every job.
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		jobs:   make([]Job, 0),
		status: make(map[string]*JobStatus),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Must be called before Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	s.status[name] = &JobStatus{Name: name, Interval: interval.String()}
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start launches one goroutine per job. Each job runs once immediately,
// then on its ticker.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// Status snapshots every job's last run outcome.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *s.status[job.Name])
	}
	return out
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	err := job.Fn(s.ctx)

	s.mu.Lock()
	st := s.status[job.Name]
	st.LastRunAt = &start
	st.LastError = nil
	if err != nil {
		msg := err.Error()
		st.LastError = &msg
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once with the given context, for tests.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
