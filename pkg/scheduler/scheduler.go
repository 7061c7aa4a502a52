package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/domain"
)

// ErrRunInProgress is returned when a run is requested while another one is active
var ErrRunInProgress = errors.New("harvest run in progress")

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . pageFetcher:FetcherMock

// Runner performs one harvest run
type Runner interface {
	Run(ctx context.Context) (domain.Run, error)
}

// Scheduler serializes harvest runs of this process. Runs are started on demand or every interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration

	runMu   sync.Mutex // held for the duration of a run
	running atomic.Bool
	lastMu  sync.RWMutex
	last    *domain.Run

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler makes a Scheduler, interval 0 disables periodic runs
func NewScheduler(runner Runner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{runner: runner, interval: interval, ctx: ctx, cancel: cancel}
}

// Start begins periodic runs, the first one immediately. Canceling ctx stops the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
			s.cancel()
		case <-s.ctx.Done():
		}
	}()

	if s.interval <= 0 {
		lgr.Printf("[INFO] periodic harvest disabled")
		return
	}

	s.wg.Add(1)
	go s.periodic()
	lgr.Printf("[INFO] scheduler started with harvest interval %v", s.interval)
}

// Stop cancels active runs and waits for them to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	s.cancel()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) periodic() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(s.ctx); errors.Is(err, ErrRunInProgress) {
			lgr.Printf("[DEBUG] skip periodic harvest, %v", err)
		}
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs a harvest and waits for it. ErrRunInProgress is returned if a run is active.
func (s *Scheduler) RunOnce(ctx context.Context) (domain.Run, error) {
	if !s.runMu.TryLock() {
		return domain.Run{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()
	return s.run(ctx)
}

// Trigger starts a harvest in background. ErrRunInProgress is returned if a run is active.
func (s *Scheduler) Trigger() error {
	if !s.runMu.TryLock() {
		return ErrRunInProgress
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.runMu.Unlock()
		if _, err := s.run(s.ctx); err != nil {
			lgr.Printf("[WARN] triggered harvest failed, %v", err)
		}
	}()
	return nil
}

func (s *Scheduler) run(ctx context.Context) (domain.Run, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	run, err := s.runner.Run(ctx)
	s.lastMu.Lock()
	s.last = &run
	s.lastMu.Unlock()
	return run, err
}

// Running reports whether a run is active
func (s *Scheduler) Running() bool { return s.running.Load() }

// LastRun returns the last run finished by this scheduler
func (s *Scheduler) LastRun() (domain.Run, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return domain.Run{}, false
	}
	return *s.last, true
}
