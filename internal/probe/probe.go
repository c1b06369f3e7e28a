package probe

import (
	"context"
	"net/http"
	"time"
)

// StatusUnreachable is the status code reported when a probe obtained no
// HTTP response at all: timeout, refused connection, DNS failure, TLS
// failure or a malformed response.
const StatusUnreachable = 0

// Outcome is the result of a single probe. Latency is only meaningful
// when the service was reachable.
type Outcome struct {
	StatusCode int
	Latency    time.Duration
}

// Reachable reports whether the probe obtained a real HTTP response.
func (o Outcome) Reachable() bool {
	return o.StatusCode != StatusUnreachable
}

// Probe issues a single GET against rawURL, bounded by timeout.
// Every failure mode collapses into the unreachable outcome; Probe
// never returns an error to the caller.
func Probe(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Outcome{StatusCode: StatusUnreachable}
	}

	res, err := client.Do(req)
	if err != nil {
		return Outcome{StatusCode: StatusUnreachable}
	}
	defer res.Body.Close()

	return Outcome{
		StatusCode: res.StatusCode,
		Latency:    time.Since(start),
	}
}
