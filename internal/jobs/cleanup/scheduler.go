package cleanup

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = 24 * time.Hour

type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the long-lived cleanup loop. It is either Stopped or
// Running; Start and Stop are both idempotent. The loop runs the job once,
// sleeps for the interval and repeats; a failed iteration is logged and the
// loop keeps going, so only Stop or process shutdown ends it.
type Scheduler struct {
	mu       sync.Mutex
	runner   Runner
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	if s.runner == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, done)
	s.logger.Info("cleanup scheduler started", zap.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for it to finish. Cancellation observed
// inside a run is expected, not an error.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	s.logger.Info("cleanup scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.runner.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error("cleanup run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
