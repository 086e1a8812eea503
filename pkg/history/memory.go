package history

import "sync"

// MemoryRepository keeps entries in a slice, most recent first.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make([]Entry, 0)}
}

func (r *MemoryRepository) List() ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepository) Insert(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Entry{e}, r.entries...)
	return nil
}

func (r *MemoryRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = r.entries[:0]
	return nil
}

func (r *MemoryRepository) TrimTo(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) > n {
		r.entries = r.entries[:n]
	}
	return nil
}
