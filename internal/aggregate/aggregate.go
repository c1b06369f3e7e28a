package aggregate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/stackwatch/internal/probe"
)

// Spec describes one service to watch: a display id, the URL to probe
// and the status codes considered healthy. Specs are built once at
// startup and never mutated during a run.
type Spec struct {
	ID     string
	URL    string
	Expect []int
}

// Status is the classified result of one probe within a cycle.
type Status struct {
	ID         string
	StatusCode int
	Latency    time.Duration
	OK         bool
}

// Reachable reports whether the probe behind this status obtained a
// real HTTP response.
func (s Status) Reachable() bool {
	return s.StatusCode != probe.StatusUnreachable
}

// MarshalJSON renders the status for the status API: the status field is
// either the numeric code or the string "unreachable", and latency_ms is
// omitted when no response was obtained.
func (s Status) MarshalJSON() ([]byte, error) {
	type row struct {
		ID        string      `json:"id"`
		OK        bool        `json:"ok"`
		Status    interface{} `json:"status"`
		LatencyMS *int64      `json:"latency_ms,omitempty"`
	}

	r := row{ID: s.ID, OK: s.OK, Status: "unreachable"}
	if s.Reachable() {
		ms := s.Latency.Milliseconds()
		r.Status = s.StatusCode
		r.LatencyMS = &ms
	}

	return json.Marshal(r)
}

// Run probes every spec concurrently and returns one Status per spec,
// in spec order. It blocks until every probe has either responded or
// timed out, so a single hung service delays the cycle by at most the
// per-probe timeout.
func Run(ctx context.Context, client *http.Client, specs []Spec, timeout time.Duration) []Status {
	results := make([]Status, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			outcome := probe.Probe(ctx, client, spec.URL, timeout)
			results[i] = classify(spec, outcome)
			return nil
		})
	}
	// Probes never fail; Wait is only the join point.
	_ = g.Wait()

	return results
}

// classify derives a Status from a probe outcome. An empty expect set
// never matches, so such a spec is permanently unhealthy.
func classify(spec Spec, outcome probe.Outcome) Status {
	s := Status{
		ID:         spec.ID,
		StatusCode: outcome.StatusCode,
		Latency:    outcome.Latency,
	}

	if !s.Reachable() {
		return s
	}

	for _, code := range spec.Expect {
		if code == outcome.StatusCode {
			s.OK = true
			break
		}
	}

	return s
}
