// Package snapshot provides double-buffered (live/snapshot) containers.
//
// Each container keeps two copies of its state: the live copy, mutated
// freely during a tick, and the snapshot copy, frozen at the last commit.
// Readers on other goroutines may iterate the snapshot without locks while
// the owning goroutine mutates the live copy; the two never alias. Commit
// (CopySnapshot) must only run from the tick's single-writer commit phase.
package snapshot

// Snapshotable is anything that can commit its live state to its snapshot.
type Snapshotable interface {
	CopySnapshot()
}

// Manager collects Snapshotables and commits them all in registration order.
type Manager struct {
	items []Snapshotable
}

func NewManager() *Manager {
	return &Manager{items: make([]Snapshotable, 0, 8)}
}

// Add registers a container with the manager.
func (m *Manager) Add(s Snapshotable) {
	m.items = append(m.items, s)
}

// CopyAllSnapshots commits every registered container. Idempotent: with no
// intervening live mutation a second call leaves all snapshots unchanged.
func (m *Manager) CopyAllSnapshots() {
	for _, s := range m.items {
		s.CopySnapshot()
	}
}
