// Package keymap defines key bindings and action dispatch for the viewer.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Gallery
	ActionNextImage  Action = "next_image"
	ActionPrevImage  Action = "prev_image"
	ActionFirstImage Action = "first_image"
	ActionLastImage  Action = "last_image"
	ActionReload     Action = "reload"
	ActionOpen       Action = "open"

	// Canvas
	ActionZoomIn     Action = "zoom_in"
	ActionZoomOut    Action = "zoom_out"
	ActionFit        Action = "fit"
	ActionFullScreen Action = "fullscreen"
	ActionPanLeft    Action = "pan_left"
	ActionPanRight   Action = "pan_right"
	ActionPanUp      Action = "pan_up"
	ActionPanDown    Action = "pan_down"

	// Status bar
	ActionToggleStatus Action = "toggle_status"
)

// Actions lists every action in help order.
var Actions = []Action{
	ActionQuit, ActionHelp,
	ActionNextImage, ActionPrevImage, ActionFirstImage, ActionLastImage, ActionReload, ActionOpen,
	ActionZoomIn, ActionZoomOut, ActionFit, ActionFullScreen,
	ActionPanLeft, ActionPanRight, ActionPanUp, ActionPanDown,
	ActionToggleStatus,
}
