package commands

import "brainstorm/pkg/validation"

// ContinueThreadCommand extends the feed past its end through a soft link handoff
type ContinueThreadCommand struct {
	SessionScope
}

// Validate validates the ContinueThreadCommand
func (c ContinueThreadCommand) Validate() error {
	return validation.Struct(c)
}

// ClearThreadCommand empties the presented feed
type ClearThreadCommand struct {
	SessionScope
}

// Validate validates the ClearThreadCommand
func (c ClearThreadCommand) Validate() error {
	return validation.Struct(c)
}
