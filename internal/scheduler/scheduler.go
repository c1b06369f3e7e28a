package scheduler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/angeloszaimis/stackwatch/internal/aggregate"
)

// Scheduler drives probe cycles on a fixed cadence and owns the only
// mutable state in the system: the latest applied result set and the
// liveness flag. A cycle that completes after Stop is discarded without
// ever touching the visible snapshot.
type Scheduler struct {
	specs    []aggregate.Spec
	timeout  time.Duration
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu        sync.Mutex
	statuses  []aggregate.Status
	firstLoad bool
	live      bool
	started   bool
	cancel    context.CancelFunc
	onApply   func([]aggregate.Status)

	updates chan struct{}
}

// New creates a scheduler over the given specs. Every probe is bounded
// by timeout and cycles repeat every interval.
func New(specs []aggregate.Spec, timeout, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		specs:     specs,
		timeout:   timeout,
		interval:  interval,
		client:    &http.Client{},
		logger:    logger,
		firstLoad: true,
		live:      true,
		updates:   make(chan struct{}, 1),
	}
}

// OnApply registers a callback invoked with every applied result set.
// It must be called before Start.
func (s *Scheduler) OnApply(fn func([]aggregate.Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onApply = fn
}

// Start runs the first cycle immediately and re-runs cycles on the
// configured interval until the context is cancelled or Stop is called.
// Starting twice, or after Stop, is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || !s.live {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop cancels the recurring cycle and flips the liveness flag so any
// cycle still in flight is discarded on completion. Stop is idempotent
// and safe to call even if Start never ran.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live {
		return
	}
	s.live = false

	if s.cancel != nil {
		s.cancel()
	}
}

// Snapshot returns a copy of the most recent applied result set and a
// flag reporting whether the first cycle is still in progress.
func (s *Scheduler) Snapshot() ([]aggregate.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]aggregate.Status, len(s.statuses))
	copy(out, s.statuses)
	return out, s.firstLoad
}

// Updates signals after every applied cycle. Notifications are
// best-effort: a slow reader sees at most one pending signal.
func (s *Scheduler) Updates() <-chan struct{} {
	return s.updates
}

func (s *Scheduler) run(ctx context.Context) {
	s.logger.Info("Scheduler started",
		slog.Int("services", len(s.specs)),
		slog.Duration("interval", s.interval),
		slog.Duration("probe_timeout", s.timeout))

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return

		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	started := time.Now()
	statuses := aggregate.Run(ctx, s.client, s.specs, s.timeout)
	s.apply(statuses, time.Since(started))
}

// apply publishes a completed cycle. The liveness check and the write
// happen under the same lock, so a cycle racing Stop can never leak a
// stale result into the snapshot.
func (s *Scheduler) apply(statuses []aggregate.Status, took time.Duration) {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		s.logger.Debug("Discarding cycle that completed after stop")
		return
	}

	s.statuses = statuses
	s.firstLoad = false
	onApply := s.onApply
	s.mu.Unlock()

	healthy := 0
	for _, st := range statuses {
		if st.OK {
			healthy++
		}
	}
	s.logger.Debug("Cycle applied",
		slog.Int("healthy", healthy),
		slog.Int("total", len(statuses)),
		slog.Duration("took", took))

	if onApply != nil {
		onApply(statuses)
	}

	select {
	case s.updates <- struct{}{}:
	default:
	}
}
