package source

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Key is the canonical identity of an image resource.
type Key string

// String returns the key as a plain string.
func (k Key) String() string { return string(k) }

const dataKeyPrefix = "data:sha256:"

// ResolveKey derives the canonical key of a locator.
//
// File paths become absolute and cleaned, URLs lose their fragment and get a
// lower-cased scheme and host, data URIs are keyed by the digest of their
// content. Two locators naming the same resource resolve to the same key.
func ResolveKey(locator string) Key {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return ""
	}

	if isDataURI(locator) {
		sum := sha256.Sum256([]byte(locator))
		return Key(dataKeyPrefix + hex.EncodeToString(sum[:]))
	}

	if strings.Contains(locator, "://") {
		u, err := url.Parse(locator)
		if err != nil {
			return Key(locator)
		}
		u.Scheme = strings.ToLower(u.Scheme)
		if u.Scheme == "file" {
			return Key(resolvePath(u.Path))
		}
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		u.RawFragment = ""
		return Key(u.String())
	}

	return Key(resolvePath(locator))
}

func resolvePath(path string) string {
	path = expandPath(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func isDataURI(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

func isHTTP(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Kind tells where a locator's bytes come from.
type Kind int

const (
	KindFile Kind = iota
	KindRemote
	KindData
	KindAudio
)

// KindOf classifies a locator.
func KindOf(locator string) Kind {
	locator = strings.TrimSpace(locator)
	switch {
	case isDataURI(locator):
		return KindData
	case isHTTP(locator):
		return KindRemote
	case IsAudioFile(strings.TrimPrefix(locator, "file://")):
		return KindAudio
	default:
		return KindFile
	}
}
