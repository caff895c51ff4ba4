package cache

import (
	"testing"

	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/source"
)

func TestMemory_PutAndGet(t *testing.T) {
	m := NewMemory()
	key := source.Key("/images/a.png")
	buf := extract.NewBuffer([]byte("png bytes"))

	if !m.Put(key, buf) {
		t.Fatal("Put() = false, want true for new key")
	}

	got, ok := m.Get(key)
	if !ok {
		t.Fatal("Get() found nothing")
	}
	if string(got.Bytes()) != "png bytes" {
		t.Errorf("Get() = %q, want %q", got.Bytes(), "png bytes")
	}
	if !m.Has(key) {
		t.Error("Has() = false after Put")
	}
}

func TestMemory_Get_NotFound(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("/missing.png"); ok {
		t.Error("Get() on empty cache should miss")
	}
}

func TestMemory_Put_NeverOverwrites(t *testing.T) {
	m := NewMemory()
	key := source.Key("/images/a.png")

	m.Put(key, extract.NewBuffer([]byte("first")))
	if m.Put(key, extract.NewBuffer([]byte("second"))) {
		t.Error("Put() on existing key = true, want false")
	}

	got, _ := m.Get(key)
	if string(got.Bytes()) != "first" {
		t.Errorf("Get() = %q, want first entry kept", got.Bytes())
	}
}

func TestMemory_Put_IgnoresEmpty(t *testing.T) {
	m := NewMemory()
	if m.Put("/a.png", extract.Buffer{}) {
		t.Error("Put() with empty buffer = true, want false")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemory_LenAndSize(t *testing.T) {
	m := NewMemory()
	m.Put("/a.png", extract.NewBuffer(make([]byte, 10)))
	m.Put("/b.png", extract.NewBuffer(make([]byte, 5)))
	m.Put("/b.png", extract.NewBuffer(make([]byte, 50)))

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if m.Size() != 15 {
		t.Errorf("Size() = %d, want 15", m.Size())
	}
}
