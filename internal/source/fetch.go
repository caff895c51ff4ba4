package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrDecode is returned when a resource cannot be fetched or decoded.
var ErrDecode = errors.New("resource decode failed")

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBytes  = 64 << 20
	defaultUserAgent = "imgview/1.0 (https://github.com/llehouerou/imgview)"
)

// FetcherConfig configures a Fetcher. Zero values select defaults.
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// Fetcher acquires and decodes image resources by locator.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBytes,
	}
}

// Fetch loads the resource named by locator and decodes it.
// Every failure wraps ErrDecode.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (*Image, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, fmt.Errorf("%w: empty locator", ErrDecode)
	}

	data, err := f.read(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrDecode, describe(locator), err)
	}

	return &Image{
		locator: locator,
		key:     ResolveKey(locator),
		img:     img,
		format:  format,
	}, nil
}

func (f *Fetcher) read(ctx context.Context, locator string) ([]byte, error) {
	switch {
	case isDataURI(locator):
		return parseDataURI(locator)
	case isHTTP(locator):
		return f.get(ctx, locator)
	}

	path := locator
	if strings.HasPrefix(strings.ToLower(locator), "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		path = u.Path
	}
	path = expandPath(path)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if IsAudioFile(path) {
		data, _, err := ExtractCoverArt(path)
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, fmt.Errorf("no cover art in %s", filepath.Base(path))
		}
		return data, nil
	}

	return f.readFile(path)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return f.readLimited(file)
}

func (f *Fetcher) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	data, err := f.readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// readLimited reads at most maxBytes, failing when the resource is larger.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("resource exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}

// parseDataURI returns the payload of a data URI.
// Format: data:[<mediatype>][;base64],<data>
func parseDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errors.New("malformed data uri: missing comma")
	}
	meta := uri[len("data:"):comma]
	payload := uri[comma+1:]

	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data uri: %w", err)
		}
		return data, nil
	}

	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data uri: %w", err)
	}
	return []byte(s), nil
}

// describe shortens a locator for error messages.
func describe(locator string) string {
	if isDataURI(locator) {
		return "data uri"
	}
	return locator
}
