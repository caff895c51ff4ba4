package termimg

import (
	"os"
	"strings"
)

// Protocol names accepted by Detect.
const (
	NameAuto   = "auto"
	NameKitty  = "kitty"
	NameSixel  = "sixel"
	NameBlocks = "blocks"
	NameNone   = "none"
)

// Detect returns the best available Protocol for the current terminal.
// A non-empty override other than "auto" forces a protocol; "none" returns
// nil. Without a graphics protocol, half blocks are used.
func Detect(override string) Protocol {
	return detect(override, os.Getenv)
}

func detect(override string, getenv func(string) string) Protocol {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case NameKitty:
		return Kitty{}
	case NameSixel:
		return NewSixel()
	case NameBlocks:
		return NewBlocks()
	case NameNone:
		return nil
	}

	if isKittySupported(getenv) {
		return Kitty{}
	}
	if isSixelSupported(getenv) {
		return NewSixel()
	}
	return NewBlocks()
}

// isKittySupported checks if the terminal supports the Kitty graphics
// protocol.
func isKittySupported(getenv func(string) string) bool {
	// Contour does not support Kitty graphics, but parent terminal variables
	// can leak into it.
	if getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if getenv("TERM") == "xterm-kitty" {
		return true
	}
	if getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	// KONSOLE_VERSION is like "220401" for 22.04.01
	if version := getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(getenv("TERM"), "kitty")
}

// isSixelSupported checks if the terminal supports Sixel graphics.
func isSixelSupported(getenv func(string) string) bool {
	term := getenv("TERM")
	termProgram := getenv("TERM_PROGRAM")

	switch {
	case term == "foot" || term == "foot-extra":
		return true
	case termProgram == "vscode", termProgram == "mintty", termProgram == "iTerm.app":
		return true
	case termProgram == "contour" || getenv("CONTOUR_PROFILE") != "":
		return true
	case term == "mlterm" || strings.HasPrefix(term, "yaft"):
		return true
	}
	return false
}
