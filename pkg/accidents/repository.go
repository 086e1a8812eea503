package accidents

import (
	"sync"
)

// Repository abstracts report persistence so the registry never touches file or
// database I/O directly. List must return reports in insertion order.
type Repository interface {
	List() ([]Report, error)
	Get(id string) (Report, bool, error)
	Upsert(r Report) error
	Delete(id string) error
}

// MemoryRepository is the in-process default. a slice keeps insertion order, the
// id map keeps lookups O(1).
type MemoryRepository struct {
	mu      sync.RWMutex
	order   []string
	reports map[string]Report
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		reports: make(map[string]Report),
	}
}

func (m *MemoryRepository) List() ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Report, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.reports[id])
	}
	return out, nil
}

func (m *MemoryRepository) Get(id string) (Report, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	return r, ok, nil
}

func (m *MemoryRepository) Upsert(r Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryRepository) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return nil
	}
	delete(m.reports, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
