package stats

import (
	"sort"
	"sync"
	"time"
)

// latencyWindow caps the per-service rolling sample; old samples fall
// off so percentiles track recent behavior.
const latencyWindow = 1000

type Stats struct {
	mutex      sync.RWMutex
	latencies  map[string][]time.Duration
	upCycles   map[string]int64
	downCycles map[string]int64
	flips      map[string]int64
	lastOK     map[string]bool
	seen       map[string]bool
	lastStatus map[string]int
	cycles     int64
	startTime  time.Time
}

type Snapshot struct {
	Uptime   time.Duration           `json:"uptime"`
	Cycles   int64                   `json:"cycles"`
	Services map[string]ServiceStats `json:"services"`
}

type ServiceStats struct {
	UpCycles   int64         `json:"up_cycles"`
	DownCycles int64         `json:"down_cycles"`
	Flips      int64         `json:"flips"`
	LastStatus int           `json:"last_status"`
	AvgLatency time.Duration `json:"avg_latency"`
	P50Latency time.Duration `json:"p50_latency"`
	P95Latency time.Duration `json:"p95_latency"`
	P99Latency time.Duration `json:"p99_latency"`
}

func NewStats() *Stats {
	return &Stats{
		latencies:  make(map[string][]time.Duration),
		upCycles:   make(map[string]int64),
		downCycles: make(map[string]int64),
		flips:      make(map[string]int64),
		lastOK:     make(map[string]bool),
		seen:       make(map[string]bool),
		lastStatus: make(map[string]int),
		startTime:  time.Now(),
	}
}

// RecordProbe folds one classified probe into the per-service counters.
// Latency samples are only kept for probes that obtained a response.
func (s *Stats) RecordProbe(service string, ok, reachable bool, statusCode int, latency time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if ok {
		s.upCycles[service]++
	} else {
		s.downCycles[service]++
	}

	if s.seen[service] && s.lastOK[service] != ok {
		s.flips[service]++
	}
	s.seen[service] = true
	s.lastOK[service] = ok
	s.lastStatus[service] = statusCode

	if reachable {
		s.latencies[service] = append(s.latencies[service], latency)
		if len(s.latencies[service]) > latencyWindow {
			s.latencies[service] = s.latencies[service][1:]
		}
	}
}

func (s *Stats) RecordCycle() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cycles++
}

func (s *Stats) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snap := Snapshot{
		Uptime:   time.Since(s.startTime),
		Cycles:   s.cycles,
		Services: make(map[string]ServiceStats),
	}

	for service := range s.seen {
		ss := ServiceStats{
			UpCycles:   s.upCycles[service],
			DownCycles: s.downCycles[service],
			Flips:      s.flips[service],
			LastStatus: s.lastStatus[service],
		}

		samples := s.latencies[service]
		if len(samples) > 0 {
			sorted := make([]time.Duration, len(samples))
			copy(sorted, samples)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			ss.AvgLatency = average(sorted)
			ss.P50Latency = percentile(sorted, 0.50)
			ss.P95Latency = percentile(sorted, 0.95)
			ss.P99Latency = percentile(sorted, 0.99)
		}

		snap.Services[service] = ss
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
