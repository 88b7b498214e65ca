// Package background runs work off the request path: thumbnails after an
// upload and the periodic system config refresh.
package background

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

// RetryPolicy retries a failed run MaxRetries times, waiting Backoff
// between attempts. Cancellation is never retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Job is one unit of work. Name identifies it in logs; the part before the
// first ":" is its kind, used as the metrics label.
type Job struct {
	Name        string
	Run         func(ctx context.Context) error
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrSchedulerStopped    = errors.New("scheduler stopped")
	ErrQueueFull           = errors.New("job queue is full")
)

type queuedJob struct {
	job      Job
	periodic bool
}

// Scheduler is a fixed pool of workers fed by a bounded queue. Schedule
// never blocks: callers on the request path get ErrQueueFull and do the
// work themselves.
type Scheduler struct {
	config SchedulerConfig
	queue  chan queuedJob

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	stopped  bool
	inFlight map[string]bool

	wg sync.WaitGroup
}

var (
	metricsOnce        sync.Once
	jobRunsTotal       *prometheus.CounterVec
	jobDurationSeconds *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rexcart",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Background job attempts by kind and outcome",
		}, []string{"kind", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rexcart",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job attempts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"})
	})
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	initMetrics()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}

	return &Scheduler{
		config:   cfg,
		queue:    make(chan queuedJob, cfg.QueueSize),
		inFlight: make(map[string]bool),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Schedule queues job for the next free worker.
func (s *Scheduler) Schedule(job Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	return s.push(queuedJob{job: job})
}

// Every queues job now and then once per interval until shutdown. A tick
// that finds the previous run still queued or running is skipped.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	if err := validateJob(job); err != nil {
		return err
	}

	ctx, err := s.runningContext()
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.tick(job)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return nil
}

func (s *Scheduler) tick(job Job) {
	s.mu.Lock()
	if s.inFlight[job.Name] {
		s.mu.Unlock()
		return
	}
	s.inFlight[job.Name] = true
	s.mu.Unlock()

	if err := s.push(queuedJob{job: job, periodic: true}); err != nil {
		s.release(job.Name)
		if !errors.Is(err, ErrSchedulerStopped) {
			logger.Warn("Periodic job not queued", map[string]interface{}{"job": job.Name, "error": err.Error()})
		}
	}
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	delete(s.inFlight, name)
	s.mu.Unlock()
}

func (s *Scheduler) runningContext() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrSchedulerNotStarted
	}
	if s.stopped {
		return nil, ErrSchedulerStopped
	}
	return s.ctx, nil
}

func (s *Scheduler) push(item queuedJob) error {
	if _, err := s.runningContext(); err != nil {
		return err
	}
	select {
	case s.queue <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case item := <-s.queue:
			s.process(item)
		}
	}
}

func (s *Scheduler) process(item queuedJob) {
	if item.periodic {
		defer s.release(item.job.Name)
	}

	job := item.job
	for attempt := 1; ; attempt++ {
		err := s.attempt(job)
		if err == nil {
			logger.Debug("Background job completed", map[string]interface{}{"job": job.Name, "attempt": attempt})
			return
		}
		if errors.Is(err, context.Canceled) {
			logger.Warn("Background job canceled", map[string]interface{}{"job": job.Name, "attempt": attempt})
			return
		}
		if attempt > job.RetryPolicy.MaxRetries {
			logger.Error(err, "Background job failed", map[string]interface{}{"job": job.Name, "attempts": attempt})
			return
		}
		if !s.sleep(job.RetryPolicy.Backoff) {
			return
		}
	}
}

func (s *Scheduler) attempt(job Job) (err error) {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	kind := jobKind(job.Name)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		jobDurationSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		jobRunsTotal.WithLabelValues(kind, runStatus(err)).Inc()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return job.Run(ctx)
}

func (s *Scheduler) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Shutdown stops the workers and periodic loops. Queued jobs that have not
// started are dropped.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validateJob(job Job) error {
	if strings.TrimSpace(job.Name) == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}
	return nil
}

func jobKind(name string) string {
	kind, _, _ := strings.Cut(name, ":")
	return kind
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "failure"
	}
}
