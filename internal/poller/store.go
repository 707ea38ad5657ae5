package poller

import (
	"sync"

	"github.com/waabox/devopswatch/internal/domain"
)

// SnapshotStore keeps the latest snapshot of each system in memory.
// It is safe for concurrent use.
type SnapshotStore struct {
	mu        sync.RWMutex
	order     []string
	snapshots map[string]domain.Snapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]domain.Snapshot)}
}

// Put replaces the snapshot of snap.SystemID.
func (s *SnapshotStore) Put(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[snap.SystemID]; !ok {
		s.order = append(s.order, snap.SystemID)
	}
	s.snapshots[snap.SystemID] = snap
}

// Get returns the latest snapshot of a system.
func (s *SnapshotStore) Get(systemID string) (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[systemID]
	return snap, ok
}

// All returns every snapshot in the order systems were first stored.
func (s *SnapshotStore) All() []domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Snapshot, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.snapshots[id])
	}
	return all
}
