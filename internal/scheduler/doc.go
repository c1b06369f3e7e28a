// Package scheduler re-runs the probe cycle on a fixed interval and
// guards the teardown boundary: once stopped, no in-flight cycle can
// mutate the published result set.
package scheduler
