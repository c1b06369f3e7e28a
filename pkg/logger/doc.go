// Package logger provides structured logging with configurable log levels.
// It writes to stderr, leaving stdout to the terminal dashboard, and
// switches to JSON output in the prod environment.
package logger
