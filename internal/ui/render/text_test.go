package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean", input: "photo.png", want: "photo.png"},
		{name: "escape sequence", input: "a\x1b[2Jb.png", want: "a[2Jb.png"},
		{name: "newline", input: "a\nb", want: "ab"},
		{name: "tab kept", input: "a\tb", want: "a\tb"},
		{name: "nbsp", input: "a\u00a0b", want: "a b"},
		{name: "invalid utf8", input: "a\xffb", want: "ab"},
		{name: "c1 control", input: "a\u0085b", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{name: "no truncation needed", input: "hello", maxWidth: 10, want: "hello"},
		{name: "exact fit", input: "hello", maxWidth: 5, want: "hello"},
		{name: "truncation", input: "hello world", maxWidth: 8, want: "hello w…"},
		{name: "wide runes", input: "画像画像", maxWidth: 5, want: "画像…"},
		{name: "zero width", input: "hello", maxWidth: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{name: "fits", input: "/a/b.png", maxWidth: 20, want: "/a/b.png"},
		{name: "keeps base name", input: "/home/user/pictures/cat.png", maxWidth: 10, want: "…s/cat.png"},
		{name: "one cell", input: "cat.png", maxWidth: 1, want: "…"},
		{name: "zero", input: "cat.png", maxWidth: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLeft(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateLeft(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "padding needed", input: "hello", width: 10, want: "hello     "},
		{name: "exact width", input: "hello", width: 5, want: "hello"},
		{name: "already wider", input: "hello world", width: 5, want: "hello world"},
		{name: "empty string", input: "", width: 5, want: "     "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pad(tt.input, tt.width); got != tt.want {
				t.Errorf("Pad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		width int
	}{
		{name: "basic row", left: "left", right: "right", width: 20},
		{name: "tight fit", left: "left", right: "right", width: 10},
		{name: "left cut", left: "a very long locator", right: "1/3", width: 12},
		{name: "styled", left: lipgloss.NewStyle().Bold(true).Render("left"), right: "right", width: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.left, tt.right, tt.width)
			if w := ansi.StringWidth(got); w != tt.width {
				t.Errorf("Row(%q, %q, %d) width = %d", tt.left, tt.right, tt.width, w)
			}
			if !strings.HasSuffix(got, tt.right) {
				t.Errorf("Row(%q, %q, %d) = %q, should end with %q", tt.left, tt.right, tt.width, got, tt.right)
			}
		})
	}
}

func TestRow_RightWiderThanWidth(t *testing.T) {
	got := Row("left", "0123456789", 4)
	if got != "0123" {
		t.Errorf("Row() = %q, want %q", got, "0123")
	}
}

func TestBlank(t *testing.T) {
	got := Blank(3, 2)
	if got != "   \n   " {
		t.Errorf("Blank(3, 2) = %q", got)
	}
	if Blank(3, 0) != "" {
		t.Error("Blank with zero height should be empty")
	}
}
