// Package statusapi exposes the current health snapshot and rolling
// probe statistics as JSON over a local HTTP endpoint.
package statusapi
