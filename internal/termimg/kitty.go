package termimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"

	// Max base64 bytes per escape sequence chunk.
	chunkSize = 4096
)

// Kitty implements Protocol with the Kitty graphics protocol. Images are
// transmitted once and placed by ID.
type Kitty struct{}

func (Kitty) Name() string { return "kitty" }

func (Kitty) Prepare(img image.Image, id uint32) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return TransmitPNG(buf.Bytes(), id), nil
}

func (Kitty) Place(id uint32, row, col, width, height int) string {
	return PlaceImage(id, row, col, width, height)
}

func (Kitty) Delete(id uint32) string {
	if id == 0 {
		return ""
	}
	return DeleteImage(id)
}

func (Kitty) Placeholder(width, height int) string {
	return BlankPlaceholder(width, height)
}

// TransmitPNG returns the commands that transmit PNG data to terminal memory
// without displaying it (a=t). Large payloads are split into chunks.
func TransmitPNG(pngData []byte, id uint32) string {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	var sb strings.Builder
	for i := 0; i < len(encoded) || i == 0; i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			// f=100: PNG, q=2: suppress responses
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)

		if end >= len(encoded) {
			break
		}
	}

	return sb.String()
}

// PlaceImage returns the escape sequence that displays a transmitted image.
// A fixed placement ID replaces the previous placement so repositioning
// leaves no ghost images. The cursor is saved and restored around it.
func PlaceImage(id uint32, row, col, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")
	return sb.String()
}

// DeleteImage returns the escape sequence that deletes an image and all its
// placements.
func DeleteImage(id uint32) string {
	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}
