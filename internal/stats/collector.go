package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/stackwatch/internal/aggregate"
)

type EventType string

const (
	EventProbeCompleted EventType = "probe_completed"
	EventCycleCompleted EventType = "cycle_completed"
)

type Event struct {
	Type       EventType
	Service    string
	StatusCode int
	Latency    time.Duration
	Reachable  bool
	OK         bool
}

// Collector consumes probe events on a buffered channel and folds them
// into Stats from a single goroutine.
type Collector struct {
	eventCh chan Event
	stats   *Stats
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		stats:   NewStats(),
		logger:  logger,
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// RecordCycle converts an applied result set into events. Sends are
// non-blocking: when the buffer is full the cycle's samples are dropped
// rather than stalling the scheduler.
func (c *Collector) RecordCycle(statuses []aggregate.Status) {
	for _, st := range statuses {
		c.publish(Event{
			Type:       EventProbeCompleted,
			Service:    st.ID,
			StatusCode: st.StatusCode,
			Latency:    st.Latency,
			Reachable:  st.Reachable(),
			OK:         st.OK,
		})
	}
	c.publish(Event{Type: EventCycleCompleted})
}

func (c *Collector) Snapshot() Snapshot {
	return c.stats.Snapshot()
}

func (c *Collector) publish(event Event) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("Stats event dropped", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Stats collector started")
	defer c.logger.Info("Stats collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventProbeCompleted:
		c.stats.RecordProbe(event.Service, event.OK, event.Reachable, event.StatusCode, event.Latency)

	case EventCycleCompleted:
		c.stats.RecordCycle()
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
