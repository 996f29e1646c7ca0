// Package model defines the data structures used throughout the application.
package model

import "time"

// Run is the persisted record of one code execution. Output is truncated to
// a fixed budget before storage; the full output only travels in the HTTP
// response of the execution itself.
type Run struct {
	ID         string    `json:"id"`
	Language   string    `json:"language"`
	ExitCode   int       `json:"exitCode"`
	TimedOut   bool      `json:"timedOut"`
	DurationMs int64     `json:"durationMs"`
	Output     string    `json:"output"`
	CreatedAt  time.Time `json:"createdAt"`
}
