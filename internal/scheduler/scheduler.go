package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// StatusStore applies a status transition only while the order is still in
// the expected prior status; false means a manual write got there first.
type StatusStore interface {
	AdvanceStatus(ctx context.Context, orderID, from, to string) (bool, error)
}

// Scheduler advances confirmed orders through delivery states purely on
// elapsed time: confirmed -> shipping after ShipAfter, shipping ->
// completed after CompleteAfter. State is process-local and lost on
// restart.
type Scheduler struct {
	store StatusStore

	tick          time.Duration
	shipAfter     time.Duration
	completeAfter time.Duration
	now           func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time // order id -> confirmation time
}

// Options overrides the delivery timing. Zero values keep the defaults
// (1s tick, ship after 5s, complete after 15s).
type Options struct {
	Tick          time.Duration
	ShipAfter     time.Duration
	CompleteAfter time.Duration
}

func New(store StatusStore, opts Options) *Scheduler {
	s := &Scheduler{
		store:         store,
		tick:          opts.Tick,
		shipAfter:     opts.ShipAfter,
		completeAfter: opts.CompleteAfter,
		now:           time.Now,
		pending:       make(map[string]time.Time),
	}
	if s.tick <= 0 {
		s.tick = time.Second
	}
	if s.shipAfter <= 0 {
		s.shipAfter = 5 * time.Second
	}
	if s.completeAfter <= s.shipAfter {
		s.completeAfter = s.shipAfter + 10*time.Second
	}
	return s
}

// Register records an order that just became confirmed. The next ticks take
// it through shipping and completed.
func (s *Scheduler) Register(orderID string) {
	s.mu.Lock()
	s.pending[orderID] = s.now()
	s.mu.Unlock()
	log.Info().Str("order_id", orderID).Msg("Order registered for automatic status updates")
}

// Start runs the recurring scan until ctx is cancelled. The scan runs on
// this goroutine only, so ticks never overlap.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

// runTick evaluates every pending order against the elapsed time since its
// confirmation. Per-order failures are logged and retried on the next tick;
// they never stop the scan.
func (s *Scheduler) runTick(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	snapshot := make(map[string]time.Time, len(s.pending))
	for id, ts := range s.pending {
		snapshot[id] = ts
	}
	s.mu.Unlock()

	for orderID, confirmedAt := range snapshot {
		elapsed := now.Sub(confirmedAt)
		switch {
		case elapsed >= s.completeAfter:
			applied, err := s.store.AdvanceStatus(ctx, orderID, entity.StatusShipping, entity.StatusCompleted)
			if err != nil {
				log.Error().Err(err).Str("order_id", orderID).Msg("Error completing order")
				continue
			}
			if applied {
				log.Info().Str("order_id", orderID).Msg("Order completed")
			} else {
				// Manually moved out of shipping; nothing left to do here.
				log.Debug().Str("order_id", orderID).Msg("Order left shipping before automatic completion")
			}
			s.remove(orderID)
		case elapsed >= s.shipAfter:
			applied, err := s.store.AdvanceStatus(ctx, orderID, entity.StatusConfirmed, entity.StatusShipping)
			if err != nil {
				log.Error().Err(err).Str("order_id", orderID).Msg("Error moving order to shipping")
				continue
			}
			if applied {
				log.Info().Str("order_id", orderID).Msg("Order moved to shipping")
			}
		}
	}
}

func (s *Scheduler) remove(orderID string) {
	s.mu.Lock()
	delete(s.pending, orderID)
	s.mu.Unlock()
}

// Pending reports how many orders still await automatic progression.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
