// Package cache stores extracted image buffers keyed by image identity.
package cache

import (
	"sync"

	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/source"
)

// Memory maps image keys to their encoded buffers for the lifetime of a
// viewer. Entries are never overwritten or evicted.
type Memory struct {
	mu      sync.RWMutex
	entries map[source.Key]extract.Buffer
	bytes   int64
}

// NewMemory creates an empty cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[source.Key]extract.Buffer)}
}

// Get returns the buffer stored under key.
func (m *Memory) Get(key source.Key) (extract.Buffer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buf, ok := m.entries[key]
	return buf, ok
}

// Has reports whether key is cached.
func (m *Memory) Has(key source.Key) bool {
	_, ok := m.Get(key)
	return ok
}

// Put stores buf under key. It returns false and keeps the existing entry
// when key is already cached, or when buf is empty.
func (m *Memory) Put(key source.Key, buf extract.Buffer) bool {
	if buf.IsZero() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		return false
	}
	m.entries[key] = buf
	m.bytes += int64(buf.Len())
	return true
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Size returns the total number of cached bytes.
func (m *Memory) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bytes
}
