package wordpick

import (
	"context"
	"sync"
)

// MemoryBags is an in-process BagRepository. State is lost when the
// process exits.
type MemoryBags struct {
	mu   sync.RWMutex
	bags map[Scope]BagState
}

// NewMemoryBags returns an empty MemoryBags.
func NewMemoryBags() *MemoryBags {
	return &MemoryBags{bags: make(map[Scope]BagState)}
}

func (m *MemoryBags) LoadBag(_ context.Context, scope Scope) (BagState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.bags[scope]
	if !ok {
		return BagState{}, nil
	}
	return BagState{Queue: append([]string(nil), st.Queue...), Last: st.Last}, nil
}

func (m *MemoryBags) SaveBag(_ context.Context, scope Scope, state BagState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bags[scope] = BagState{Queue: append([]string(nil), state.Queue...), Last: state.Last}
	return nil
}

// Len returns the number of scopes with stored state.
func (m *MemoryBags) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bags)
}
