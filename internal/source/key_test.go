//nolint:goconst // test cases intentionally repeat strings for readability
package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveKey(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected Key
	}{
		{
			name:     "empty locator",
			input:    "",
			expected: "",
		},
		{
			name:     "relative path becomes absolute",
			input:    "a.png",
			expected: Key(filepath.Join(cwd, "a.png")),
		},
		{
			name:     "dot segments are cleaned",
			input:    "./img/../a.png",
			expected: Key(filepath.Join(cwd, "a.png")),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/images/a.png",
			expected: "/srv/images/a.png",
		},
		{
			name:     "file url resolves to path",
			input:    "file:///srv/images/a.png",
			expected: "/srv/images/a.png",
		},
		{
			name:     "url scheme and host lower-cased",
			input:    "HTTPS://Example.COM/Images/A.png",
			expected: "https://example.com/Images/A.png",
		},
		{
			name:     "url fragment dropped",
			input:    "https://example.com/a.png#top",
			expected: "https://example.com/a.png",
		},
		{
			name:     "surrounding spaces ignored",
			input:    "  https://example.com/a.png ",
			expected: "https://example.com/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveKey(tt.input); got != tt.expected {
				t.Errorf("ResolveKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveKey_SameResourceSameKey(t *testing.T) {
	pairs := [][2]string{
		{"a.png", "./a.png"},
		{"img/a.png", "img/sub/../a.png"},
		{"https://example.com/a.png", "https://EXAMPLE.com/a.png#x"},
	}
	for _, p := range pairs {
		if ResolveKey(p[0]) != ResolveKey(p[1]) {
			t.Errorf("ResolveKey(%q) != ResolveKey(%q)", p[0], p[1])
		}
	}
}

func TestResolveKey_DataURI(t *testing.T) {
	a := ResolveKey("data:image/png;base64,AAAA")
	b := ResolveKey("data:image/png;base64,AAAA")
	c := ResolveKey("data:image/png;base64,BBBB")

	if !strings.HasPrefix(string(a), dataKeyPrefix) {
		t.Errorf("data uri key = %q, want prefix %q", a, dataKeyPrefix)
	}
	if a != b {
		t.Error("identical data uris should share a key")
	}
	if a == c {
		t.Error("different data uris should not share a key")
	}
}

func TestLocatorAndImage_ShareKey(t *testing.T) {
	loc := Locator("img/a.png")
	img := NewImage("./img/a.png", nil)

	if loc.Key() != img.Key() {
		t.Errorf("Locator key %q != Image key %q", loc.Key(), img.Key())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		locator string
		want    Kind
	}{
		{"photo.png", KindFile},
		{"file:///tmp/photo.png", KindFile},
		{"HTTPS://example.com/a.png", KindRemote},
		{"http://example.com/song.mp3", KindRemote},
		{"data:image/png;base64,AAAA", KindData},
		{"/music/track.FLAC", KindAudio},
		{"file:///music/track.mp3", KindAudio},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			if got := KindOf(tt.locator); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.locator, got, tt.want)
			}
		})
	}
}
