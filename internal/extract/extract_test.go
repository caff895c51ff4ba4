package extract

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

type testResource struct {
	img image.Image
}

func (r testResource) NaturalSize() (int, int) {
	if r.img == nil {
		return 0, 0
	}
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r testResource) Pixels() image.Image { return r.img }

func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255}) //nolint:gosec // test dimensions are small
		}
	}
	return img
}

func TestExtract_ProducesPNGOfNaturalSize(t *testing.T) {
	e := New()
	src := gradient(13, 5)

	buf, err := e.Extract(testResource{img: src})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if buf.IsZero() {
		t.Fatal("Extract() returned empty buffer")
	}
	if buf.Len() != len(buf.Bytes()) {
		t.Errorf("Len() = %d, len(Bytes()) = %d", buf.Len(), len(buf.Bytes()))
	}

	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("buffer is not a png: %v", err)
	}
	if decoded.Bounds().Dx() != 13 || decoded.Bounds().Dy() != 5 {
		t.Errorf("decoded size = %v, want 13x5", decoded.Bounds())
	}

	// Lossless: every pixel survives.
	for y := range 5 {
		for x := range 13 {
			want := src.NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestExtract_OffsetBoundsDrawnAtOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	src.SetNRGBA(10, 10, color.NRGBA{R: 255, A: 255})

	buf, err := New().Extract(testResource{img: src})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("bounds = %v, want (0,0)-(4,2)", decoded.Bounds())
	}
	r, _, _, a := decoded.At(0, 0).RGBA()
	if r != 0xffff || a != 0xffff {
		t.Errorf("origin pixel = %v, want opaque red", decoded.At(0, 0))
	}
}

func TestExtract_CountsRuns(t *testing.T) {
	e := New()
	for range 3 {
		if _, err := e.Extract(testResource{img: gradient(2, 2)}); err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
	}
	if e.Runs() != 3 {
		t.Errorf("Runs() = %d, want 3", e.Runs())
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name string
		res  Resource
	}{
		{"nil resource", nil},
		{"no pixels", testResource{}},
		{"zero width", testResource{img: image.NewNRGBA(image.Rect(0, 0, 0, 4))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New().Extract(tt.res)
			if !errors.Is(err, ErrExtract) {
				t.Errorf("Extract() error = %v, want ErrExtract", err)
			}
			if !buf.IsZero() {
				t.Error("failed extraction should return an empty buffer")
			}
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	enc := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png prefix", "data:image/png;base64," + enc, false},
		{"jpg prefix", "data:image/jpg;base64," + enc, false},
		{"jpeg prefix", "data:image/jpeg;base64," + enc, false},
		{"missing prefix", enc, true},
		{"non image prefix", "data:text/plain;base64," + enc, true},
		{"bad base64", "data:image/png;base64,@@@", true},
		{"empty payload", "data:image/png;base64,", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodeDataURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrExtract) {
					t.Errorf("DecodeDataURL() error = %v, want ErrExtract", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), payload) {
				t.Errorf("DecodeDataURL() = %v, want %v", buf.Bytes(), payload)
			}
		})
	}
}

func TestNewBuffer_Copies(t *testing.T) {
	data := []byte{1, 2, 3}
	buf := NewBuffer(data)
	data[0] = 9

	if buf.Bytes()[0] != 1 {
		t.Error("NewBuffer should copy its input")
	}
	if NewBuffer(nil).Len() != 0 {
		t.Error("NewBuffer(nil) should be empty")
	}
}

func TestSurface(t *testing.T) {
	if _, err := NewSurface(0, 10); err == nil {
		t.Error("NewSurface(0, 10) should fail")
	}

	s, err := NewSurface(3, 2)
	if err != nil {
		t.Fatalf("NewSurface() error: %v", err)
	}
	w, h := s.Size()
	if w != 3 || h != 2 {
		t.Errorf("Size() = %dx%d, want 3x2", w, h)
	}

	s.DrawImage(gradient(3, 2))

	url, err := s.DataURL("image/webp")
	if err != nil {
		t.Fatalf("DataURL() error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unsupported type should fall back to png, got %q", url[:30])
	}

	url, err = s.DataURL(MimeJPEG)
	if err != nil {
		t.Fatalf("DataURL(jpeg) error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("DataURL(jpeg) prefix = %q", url[:30])
	}
}
