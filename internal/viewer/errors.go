package viewer

import (
	"path/filepath"
	"strings"

	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/source"
)

// LoadError reports a failed image request. It wraps source.ErrDecode or
// extract.ErrExtract.
type LoadError struct {
	Op      errmsg.Op
	Locator string
	Key     source.Key
	Err     error
}

func (e *LoadError) Error() string {
	return errmsg.FormatWith(e.Op, shortLocator(e.Locator), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// shortLocator trims locators for messages: data URIs are elided and
// paths are reduced to their base name.
func shortLocator(locator string) string {
	switch {
	case strings.HasPrefix(strings.ToLower(locator), "data:"):
		return "data uri"
	case strings.Contains(locator, "://"):
		return locator
	case locator == "":
		return ""
	default:
		return filepath.Base(locator)
	}
}
