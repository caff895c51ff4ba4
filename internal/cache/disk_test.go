package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/source"
)

const testKey source.Key = "/images/a.png"

func newTestDisk(t *testing.T) *Disk {
	t.Helper()

	d, err := NewDisk(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	return d
}

func TestNewDisk_CustomDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom", "cache")

	d, err := NewDisk(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewDisk() error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("cache directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("cache path is not a directory")
	}
	if d.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", d.Dir(), dir)
	}
}

func TestDisk_PutAndGet(t *testing.T) {
	d := newTestDisk(t)
	data := []byte("fake png data for testing")

	if err := d.Put(testKey, extract.NewBuffer(data)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, ok := d.Get(testKey)
	if !ok {
		t.Fatal("Get() found nothing")
	}
	if !bytes.Equal(got.Bytes(), data) {
		t.Errorf("Get() = %q, want %q", got.Bytes(), data)
	}
}

func TestDisk_Get_NotFound(t *testing.T) {
	d := newTestDisk(t)
	if _, ok := d.Get("/nonexistent.png"); ok {
		t.Error("Get() for nonexistent entry should miss")
	}
}

func TestDisk_Put_EmptyIgnored(t *testing.T) {
	d := newTestDisk(t)

	if err := d.Put(testKey, extract.Buffer{}); err != nil {
		t.Fatalf("Put() with empty data error: %v", err)
	}
	if _, ok := d.Get(testKey); ok {
		t.Error("empty data should not be cached")
	}
}

func TestDisk_Put_LeavesNoTempFiles(t *testing.T) {
	d := newTestDisk(t)
	_ = d.Put(testKey, extract.NewBuffer([]byte("data")))

	entries, err := os.ReadDir(d.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("cache dir has %d entries, want 1", len(entries))
	}
	if filepath.Ext(entries[0].Name()) != fileExt {
		t.Errorf("entry %q should end in %s", entries[0].Name(), fileExt)
	}
}

func TestDisk_Clear(t *testing.T) {
	d := newTestDisk(t)
	_ = d.Put("/a.png", extract.NewBuffer([]byte("a")))
	_ = d.Put("/b.png", extract.NewBuffer([]byte("b")))

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if _, ok := d.Get("/a.png"); ok {
		t.Error("a should not exist after clear")
	}
	if _, ok := d.Get("/b.png"); ok {
		t.Error("b should not exist after clear")
	}
}

func TestDisk_Prune(t *testing.T) {
	d := newTestDisk(t)

	_ = d.Put("/recent.png", extract.NewBuffer([]byte("recent")))
	_ = d.Put("/old.png", extract.NewBuffer([]byte("old")))

	oldTime := time.Now().Add(-10 * 24 * time.Hour)
	_ = os.Chtimes(d.path("/old.png"), oldTime, oldTime)

	if err := d.Prune(7 * 24 * time.Hour); err != nil {
		t.Fatalf("Prune() error: %v", err)
	}

	if _, ok := d.Get("/recent.png"); !ok {
		t.Error("recent entry should remain")
	}
	if _, ok := d.Get("/old.png"); ok {
		t.Error("old entry should be pruned")
	}
}

func TestDisk_Get_UpdatesMtime(t *testing.T) {
	d := newTestDisk(t)
	_ = d.Put(testKey, extract.NewBuffer([]byte("data")))

	path := d.path(testKey)
	oldTime := time.Now().Add(-5 * 24 * time.Hour)
	_ = os.Chtimes(path, oldTime, oldTime)

	_, _ = d.Get(testKey)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if time.Since(info.ModTime()) > time.Second {
		t.Error("Get() should update mtime to current time")
	}
}

func TestDisk_cacheKey(t *testing.T) {
	d := newTestDisk(t)

	if d.cacheKey("/a.png") != d.cacheKey("/a.png") {
		t.Error("cacheKey should be deterministic")
	}
	if d.cacheKey("/a.png") == d.cacheKey("/b.png") {
		t.Error("cacheKey should differ for different keys")
	}
	key := d.cacheKey("/Artist (feat. Other)/Album [Deluxe]/#1.png")
	if len(key) != 64 {
		t.Errorf("cacheKey length = %d, want 64 (SHA256 hex)", len(key))
	}
}

func TestDisk_Nil(t *testing.T) {
	var d *Disk

	if _, ok := d.Get(testKey); ok {
		t.Error("nil disk should miss")
	}
	if err := d.Put(testKey, extract.NewBuffer([]byte("x"))); err != nil {
		t.Errorf("nil disk Put() error: %v", err)
	}
	if d.Dir() != "" {
		t.Error("nil disk Dir() should be empty")
	}
}

func TestDisk_EditedSourceMisses(t *testing.T) {
	d := newTestDisk(t)
	src := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(src, []byte("first"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	key := source.Key(src)

	if err := d.Put(key, extract.NewBuffer([]byte("first buffer"))); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if _, ok := d.Get(key); !ok {
		t.Fatal("unchanged source should hit")
	}

	if err := os.WriteFile(src, []byte("second version"), 0o600); err != nil {
		t.Fatalf("rewrite source: %v", err)
	}
	later := time.Now().Add(time.Minute)
	_ = os.Chtimes(src, later, later)

	if _, ok := d.Get(key); ok {
		t.Error("edited source should miss")
	}
}

func TestDisk_cacheKey_RemoteIgnoresStat(t *testing.T) {
	d := newTestDisk(t)
	if d.cacheKey("https://example.com/a.png") != d.cacheKey("https://example.com/a.png") {
		t.Error("cacheKey should be deterministic for URLs")
	}
}
