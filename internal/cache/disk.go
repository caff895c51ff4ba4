package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/source"
)

const (
	diskDirName = "imgview/buffers"
	fileExt     = ".png"
)

// DefaultMaxAge is how long an unused disk entry survives.
const DefaultMaxAge = 30 * 24 * time.Hour

// Disk persists extracted buffers across runs.
// A nil *Disk is valid and caches nothing.
type Disk struct {
	dir    string
	maxAge time.Duration
}

// NewDisk creates a disk cache in dir, or in the XDG cache directory when dir
// is empty. Entries unused for longer than maxAge are pruned in the background.
func NewDisk(dir string, maxAge time.Duration) (*Disk, error) {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, diskDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	d := &Disk{dir: dir, maxAge: maxAge}

	go d.Prune(maxAge) //nolint:errcheck // best-effort

	return d, nil
}

// Dir returns the cache directory.
func (d *Disk) Dir() string {
	if d == nil {
		return ""
	}
	return d.dir
}

// cacheKey hashes key. Local files also contribute their size and
// modification time, so an edited file no longer matches its old entry.
func (d *Disk) cacheKey(key source.Key) string {
	h := sha256.New()
	h.Write([]byte(key))
	if filepath.IsAbs(string(key)) {
		if info, err := os.Stat(string(key)); err == nil {
			fmt.Fprintf(h, "\x00%d\x00%d", info.Size(), info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (d *Disk) path(key source.Key) string {
	return filepath.Join(d.dir, d.cacheKey(key)+fileExt)
}

// Get returns the buffer stored for key.
func (d *Disk) Get(key source.Key) (extract.Buffer, bool) {
	if d == nil {
		return extract.Buffer{}, false
	}

	path := d.path(key)
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return extract.Buffer{}, false
	}

	// Touch the file so frequently used entries survive pruning
	now := time.Now()
	_ = os.Chtimes(path, now, now) //nolint:errcheck // best-effort

	return extract.NewBuffer(data), true
}

// Put stores buf for key. Empty buffers are ignored.
func (d *Disk) Put(key source.Key, buf extract.Buffer) error {
	if d == nil || buf.IsZero() {
		return nil
	}

	// Write to a temp file first so readers never see a partial buffer
	tmp, err := os.CreateTemp(d.dir, "put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.path(key))
}

// Clear removes every cached entry.
func (d *Disk) Clear() error {
	if d == nil {
		return nil
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		err := os.Remove(filepath.Join(d.dir, entry.Name()))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Prune removes entries not used within maxAge.
func (d *Disk) Prune(maxAge time.Duration) error {
	if d == nil {
		return nil
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(d.dir, entry.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
	return nil
}
