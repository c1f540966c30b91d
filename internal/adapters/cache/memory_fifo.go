package cache

import (
	"sync"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// DefaultCapacity bounds the result cache when no capacity is configured.
const DefaultCapacity = 100

// Memory is a bounded map from raw query string to a finished result list.
// Eviction is insertion-order (FIFO), not LRU: a hit does not refresh an
// entry's position. Entries live until evicted or the process restarts; there
// is no TTL.
type Memory struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]entities.Event
	order    []string
}

// NewMemory creates a FIFO result cache. Non-positive capacities fall back
// to DefaultCapacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		capacity: capacity,
		entries:  make(map[string][]entities.Event, capacity),
	}
}

// Get returns the cached result list for the exact raw query string.
func (m *Memory) Get(query string) ([]entities.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results, ok := m.entries[query]
	return results, ok
}

// Set stores a result list, evicting the oldest entry first when the cache
// is full.
func (m *Memory) Set(query string, results []entities.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	if _, exists := m.entries[query]; !exists {
		m.order = append(m.order, query)
	}
	m.entries[query] = results
}

// Len returns the number of cached queries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
