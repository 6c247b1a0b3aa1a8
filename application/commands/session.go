// Package commands defines the requests that change a reader's navigation state.
package commands

import "brainstorm/pkg/validation"

// SessionScope identifies the navigation session a command applies to
type SessionScope struct {
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required,max=128"`
}

// EndSessionCommand discards a session and cancels its background work
type EndSessionCommand struct {
	SessionScope
}

// Validate validates the EndSessionCommand
func (c EndSessionCommand) Validate() error {
	return validation.Struct(c)
}
