package commands

import "brainstorm/pkg/validation"

// CloseLayoutCommand closes the open layout; late results of in-flight computations are dropped
type CloseLayoutCommand struct {
	SessionScope
}

// Validate validates the CloseLayoutCommand
func (c CloseLayoutCommand) Validate() error {
	return validation.Struct(c)
}

// SubmitCameraCommand queues a zoom and pan update for the next frame
type SubmitCameraCommand struct {
	SessionScope
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
	Zoom   float64 `json:"zoom" validate:"gt=0"`
	PanX   float64 `json:"pan_x"`
	PanY   float64 `json:"pan_y"`
	// Immediate applies the camera now instead of on the next frame
	Immediate bool `json:"immediate"`
}

// Validate validates the SubmitCameraCommand
func (c SubmitCameraCommand) Validate() error {
	return validation.Struct(c)
}
