package cache

import "sync"

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered caches. It is driven by the jobs scheduler.
type Manager struct {
	mu      sync.Mutex
	caches  []Cleaner
	onClean func(removed int)
}

// NewManager creates a new cache manager. onClean, if set, is called after
// every sweep that removed at least one entry.
func NewManager(onClean func(removed int)) *Manager {
	return &Manager{onClean: onClean}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// CleanAll sweeps every registered cache once and returns the number of removed entries.
func (m *Manager) CleanAll() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	if total > 0 && m.onClean != nil {
		m.onClean(total)
	}
	return total
}
