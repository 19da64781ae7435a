package snapshot

// mapOp is one recorded live mutation, replayed onto the snapshot at commit.
type mapOp[K comparable, V any] struct {
	key K
	val V
	del bool
}

// Map is a double-buffered hash map. Live mutations are recorded in an
// append-only change log and replayed onto the snapshot copy at commit.
type Map[K comparable, V any] struct {
	live map[K]V
	snap map[K]V
	ops  []mapOp[K, V]
}

func NewMap[K comparable, V any](mgr *Manager) *Map[K, V] {
	m := &Map[K, V]{
		live: make(map[K]V),
		snap: make(map[K]V),
	}
	if mgr != nil {
		mgr.Add(m)
	}
	return m
}

// Put inserts or replaces a live entry and returns the displaced value.
func (m *Map[K, V]) Put(key K, val V) (V, bool) {
	old, ok := m.live[key]
	m.live[key] = val
	m.ops = append(m.ops, mapOp[K, V]{key: key, val: val})
	return old, ok
}

// Remove deletes a live entry and returns the removed value.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	old, ok := m.live[key]
	if ok {
		delete(m.live, key)
		m.ops = append(m.ops, mapOp[K, V]{key: key, val: old, del: true})
	}
	return old, ok
}

// Get reads the committed (snapshot) view.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.snap[key]
	return v, ok
}

// GetLive reads the in-progress live view.
func (m *Map[K, V]) GetLive(key K) (V, bool) {
	v, ok := m.live[key]
	return v, ok
}

// Snapshot returns the committed map. Read-only; stable until the next
// commit, safe for concurrent iteration during a tick.
func (m *Map[K, V]) Snapshot() map[K]V {
	return m.snap
}

// Live returns the live map. Owning goroutine only.
func (m *Map[K, V]) Live() map[K]V {
	return m.live
}

// Dirty returns the values added or removed since the last commit, in
// mutation order. May contain the same value more than once.
func (m *Map[K, V]) Dirty() []V {
	if len(m.ops) == 0 {
		return nil
	}
	vals := make([]V, len(m.ops))
	for i, op := range m.ops {
		vals[i] = op.val
	}
	return vals
}

// DirtyKeys returns the keys touched since the last commit, in mutation
// order. May contain the same key more than once.
func (m *Map[K, V]) DirtyKeys() []K {
	if len(m.ops) == 0 {
		return nil
	}
	keys := make([]K, len(m.ops))
	for i, op := range m.ops {
		keys[i] = op.key
	}
	return keys
}

func (m *Map[K, V]) Len() int     { return len(m.snap) }
func (m *Map[K, V]) LenLive() int { return len(m.live) }

// CopySnapshot replays the change log onto the snapshot and clears it.
func (m *Map[K, V]) CopySnapshot() {
	for _, op := range m.ops {
		if op.del {
			delete(m.snap, op.key)
		} else {
			m.snap[op.key] = op.val
		}
	}
	m.ops = m.ops[:0]
}
