package alert

import (
	"context"
	"sync"
)

type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	if len(r.entries) > maxEntries {
		r.entries = r.entries[len(r.entries)-maxEntries:]
	}
	return nil
}

func (r *MemoryRecorder) Recent(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Entry{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
