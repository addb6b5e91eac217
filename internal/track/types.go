// Package track receives execution metadata pushed by the command-execution
// collaborator: working directory, last command, exit code, and idle flag.
// The awareness core never infers these — they arrive over a local datagram
// socket and are forwarded to the snapshot manager.
package track

import (
	"fmt"
	"time"
)

// Update is the normalized execution-state payload. Pointer fields are
// partial: a nil field leaves the tracked value untouched.
type Update struct {
	Cwd          *string   `json:"cwd,omitempty"`
	LastCommand  *string   `json:"last_command,omitempty"`
	LastExitCode *int      `json:"last_exit_code,omitempty"`
	Idle         *bool     `json:"idle,omitempty"`
	TS           time.Time `json:"ts"`
}

// Validate rejects payloads that carry nothing or no timestamp.
func (u Update) Validate() error {
	if u.Cwd == nil && u.LastCommand == nil && u.LastExitCode == nil && u.Idle == nil {
		return fmt.Errorf("update carries no fields")
	}
	if u.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	if u.Cwd != nil && *u.Cwd == "" {
		return fmt.Errorf("cwd must be non-empty when present")
	}
	return nil
}
