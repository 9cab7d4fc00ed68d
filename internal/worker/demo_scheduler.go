package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PaymentCompleter exposes the subset of application functionality required
// to settle a demo payment.
type PaymentCompleter interface {
	CompleteDemoPayment(ctx context.Context, orderID string) error
}

// DemoScheduler synthesizes a successful confirmation after a fixed delay
// when no live gateway is configured. Each pending confirmation is a
// cancellable per-order timer, so an intervening cancellation aborts it
// before it fires.
type DemoScheduler struct {
	completer PaymentCompleter
	delay     time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	started bool
}

// NewDemoScheduler constructs the scheduler.
func NewDemoScheduler(completer PaymentCompleter, delay time.Duration, logger *slog.Logger) *DemoScheduler {
	if delay <= 0 {
		delay = time.Second
	}
	return &DemoScheduler{
		completer: completer,
		delay:     delay,
		logger:    logger,
		timers:    make(map[string]*time.Timer),
	}
}

// Start arms the scheduler. Timers scheduled before Start are rejected.
func (s *DemoScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
}

// Schedule arms a one-shot confirmation for the order. Re-scheduling an
// order resets its timer.
func (s *DemoScheduler) Schedule(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.logger.Warn("demo scheduler not started, dropping confirmation", slog.String("order", orderID))
		return
	}

	if timer, ok := s.timers[orderID]; ok {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, orderID)
	}

	s.wg.Add(1)
	s.timers[orderID] = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.fire(orderID)
	})
}

// Cancel aborts a pending confirmation, if any.
func (s *DemoScheduler) Cancel(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[orderID]; ok {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, orderID)
	}
}

// Stop aborts all pending confirmations and waits for in-flight ones.
func (s *DemoScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.started = false
	for id, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *DemoScheduler) fire(orderID string) {
	s.mu.Lock()
	delete(s.timers, orderID)
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	if err := s.completer.CompleteDemoPayment(ctx, orderID); err != nil {
		s.logger.Error("demo confirmation failed", slog.String("order", orderID), slog.String("error", err.Error()))
	}
}
