package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Supported data URL media types. Anything else falls back to PNG.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// Surface is an off-screen rasterization target.
type Surface struct {
	img *image.NRGBA
}

// NewSurface allocates a transparent surface of exactly width x height pixels.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// DrawImage draws src at the origin with no scaling or transform.
// Pixels of src outside the surface are clipped.
func (s *Surface) DrawImage(src image.Image) {
	draw.Draw(s.img, s.img.Bounds(), src, src.Bounds().Min, draw.Src)
}

// Image exposes the surface pixels.
func (s *Surface) Image() image.Image { return s.img }

// DataURL serializes the surface as a base64 data URL of the given media
// type. Unsupported types produce PNG.
func (s *Surface) DataURL(mime string) (string, error) {
	var buf bytes.Buffer
	switch mime {
	case MimeJPEG:
		if err := jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: 92}); err != nil {
			return "", fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		mime = MimePNG
		if err := png.Encode(&buf, s.img); err != nil {
			return "", fmt.Errorf("encode png: %w", err)
		}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
