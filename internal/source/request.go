// Package source resolves image requests into decoded images.
//
// A request is either a Locator (a path, URL or data URI) or an already
// decoded *Image. Both resolve to a Key, the canonical identity used for
// cache lookups.
package source

import (
	"image"
)

// Request is an image request accepted by the viewer.
// It is implemented by Locator and *Image only.
type Request interface {
	Key() Key
	imageRequest()
}

// Locator identifies an image resource that still has to be fetched and
// decoded: a file path, a file://, http:// or https:// URL, or a data URI.
type Locator string

// Key returns the canonical cache key of the locator.
func (l Locator) Key() Key { return ResolveKey(string(l)) }

func (Locator) imageRequest() {}

// Image is a decoded image resource together with the locator it came from.
type Image struct {
	locator string
	key     Key
	img     image.Image
	format  string
}

// NewImage wraps an already decoded image. The locator determines its key.
func NewImage(locator string, img image.Image) *Image {
	return &Image{
		locator: locator,
		key:     ResolveKey(locator),
		img:     img,
	}
}

// Key returns the canonical cache key of the image's locator.
func (i *Image) Key() Key { return i.key }

func (*Image) imageRequest() {}

// Locator returns the locator the image was loaded from.
func (i *Image) Locator() string { return i.locator }

// Format returns the name of the decoder that produced the image, or ""
// when the image was handed in already decoded.
func (i *Image) Format() string { return i.format }

// NaturalSize returns the image's intrinsic pixel dimensions.
func (i *Image) NaturalSize() (width, height int) {
	if i == nil || i.img == nil {
		return 0, 0
	}
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Pixels returns the decoded pixel content.
func (i *Image) Pixels() image.Image {
	if i == nil {
		return nil
	}
	return i.img
}
