package snapshot

// List is a double-buffered ordered collection. The snapshot slice is
// rebuilt (never aliased) at commit so handed-out snapshots stay stable.
type List[T comparable] struct {
	live  []T
	snap  []T
	dirty bool
}

func NewList[T comparable](mgr *Manager) *List[T] {
	l := &List[T]{}
	if mgr != nil {
		mgr.Add(l)
	}
	return l
}

// Add appends to the live list.
func (l *List[T]) Add(v T) {
	l.live = append(l.live, v)
	l.dirty = true
}

// Remove deletes the first live occurrence of v. Order is preserved.
func (l *List[T]) Remove(v T) bool {
	for i, cur := range l.live {
		if cur == v {
			l.live = append(l.live[:i], l.live[i+1:]...)
			l.dirty = true
			return true
		}
	}
	return false
}

// Get returns the committed slice. Read-only; stable until process exit
// (commit allocates a fresh backing array).
func (l *List[T]) Get() []T {
	return l.snap
}

// Live returns the live slice. Owning goroutine only.
func (l *List[T]) Live() []T {
	return l.live
}

func (l *List[T]) Len() int     { return len(l.snap) }
func (l *List[T]) LenLive() int { return len(l.live) }

// CopySnapshot publishes a fresh copy of the live list as the snapshot.
func (l *List[T]) CopySnapshot() {
	if !l.dirty {
		return
	}
	l.snap = append([]T(nil), l.live...)
	l.dirty = false
}
