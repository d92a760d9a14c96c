package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper runs the expiry sweep on a fixed interval.
//
// Start runs one sweep immediately, then ticks until the context is canceled
// or Stop is called. Stop blocks until the loop has exited.
type Sweeper struct {
	svc      *Service
	log      *slog.Logger
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper builds a sweeper around the service using its configured
// interval.
func NewSweeper(svc *Service, log *slog.Logger) *Sweeper {
	return &Sweeper{svc: svc, log: log, interval: svc.cfg.SweepInterval}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a
// no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

// Stop cancels the loop and waits for it to finish. Safe to call more than
// once and before Start.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.sweep(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, _, err := s.svc.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		s.log.ErrorContext(ctx, "session sweep failed", "error", err)
	}
}
