// Package probe issues single bounded-time HTTP checks against service
// URLs. All failure modes are folded into one unreachable outcome so
// callers never deal with transport errors directly.
package probe
