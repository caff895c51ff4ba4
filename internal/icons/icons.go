// Package icons holds the status bar glyphs in the configured style.
package icons

import "github.com/llehouerou/imgview/internal/source"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	File   string
	Remote string
	Data   string
	Audio  string
	Error  string
}

var (
	nerdIcons = Icons{
		File:   "\uf03e ", // nf-fa-image
		Remote: "\uf0ac ", // nf-fa-globe
		Data:   "\uf121 ", // nf-fa-code
		Audio:  "\uf001 ", // nf-fa-music
		Error:  "\uf071 ", // nf-fa-warning
	}

	unicodeIcons = Icons{
		File:   "🖼 ",
		Remote: "🌐 ",
		Data:   "📄 ",
		Audio:  "🎵 ",
		Error:  "⚠ ",
	}

	noneIcons = Icons{
		Error: "! ",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// ForLocator returns the icon of a locator's kind.
func ForLocator(locator string) string {
	switch source.KindOf(locator) {
	case source.KindRemote:
		return current.Remote
	case source.KindData:
		return current.Data
	case source.KindAudio:
		return current.Audio
	default:
		return current.File
	}
}

// FormatError prefixes an error message with the warning icon.
func FormatError(msg string) string {
	return current.Error + msg
}
