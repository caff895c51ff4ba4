// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Image loading
	OpImageLoad    Op = "load image"
	OpImageExtract Op = "extract image bytes"
	OpImageCache   Op = "cache image bytes"

	// Engine
	OpEngineStart Op = "start rendering engine"
	OpEngineDraw  Op = "draw image"

	// State
	OpStateOpen   Op = "open viewer state"
	OpHistorySave Op = "save view history"
	OpHistoryLoad Op = "load view history"
	OpConfigLoad  Op = "load configuration"
	OpFileWrite   Op = "write file"

	// Initialization
	OpInitialize Op = "initialize viewer"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
