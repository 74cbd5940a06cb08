// Package scheduler runs a background job on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chweb/pkg/logger"
)

// Job is one run of a scheduled task. Its context expires after one interval.
type Job func(ctx context.Context) error

type Scheduler struct {
	name       string
	log        *slog.Logger
	job        Job
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the current run
	mu         sync.Mutex         // protects cancelFunc
}

func New(name string, job Job, interval time.Duration) *Scheduler {
	return &Scheduler{
		name:     name,
		log:      logger.With("module", "scheduler", "job", name),
		job:      job,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info("scheduler started", "interval", s.interval)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	if err := s.job(ctx); err != nil {
		if ctx.Err() != nil {
			s.log.Debug("scheduled job cancelled")
			return
		}
		s.log.Error("scheduled job", "result", "failed", "error", err)
	}
}
