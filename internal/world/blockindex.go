package world

import "github.com/voxelgate/server/internal/core/snapshot"

// BlockIndex maps an integer block coordinate to the single entity bound to
// that cell. At most one occupant per cell: putting a second entity evicts
// the previous one and hands it back for side-effect handling.
type BlockIndex struct {
	cells *snapshot.Map[Vec3i, *Entity]
}

func NewBlockIndex(mgr *snapshot.Manager) *BlockIndex {
	return &BlockIndex{cells: snapshot.NewMap[Vec3i, *Entity](mgr)}
}

// Put binds e to pos and returns the displaced occupant, nil if the cell
// was free.
func (b *BlockIndex) Put(pos Vec3i, e *Entity) *Entity {
	old, ok := b.cells.Put(pos, e)
	if !ok || old == e {
		return nil
	}
	return old
}

// Remove unbinds pos only while it is still owned by e. A stale removal
// after an eviction is a benign no-op.
func (b *BlockIndex) Remove(pos Vec3i, e *Entity) bool {
	cur, ok := b.cells.GetLive(pos)
	if !ok || cur != e {
		return false
	}
	b.cells.Remove(pos)
	return true
}

// Get returns the committed occupant of pos, nil if free.
func (b *BlockIndex) Get(pos Vec3i) *Entity {
	e, _ := b.cells.Get(pos)
	return e
}

// GetLive returns the live occupant of pos, nil if free.
func (b *BlockIndex) GetLive(pos Vec3i) *Entity {
	e, _ := b.cells.GetLive(pos)
	return e
}

// Snapshot returns a copy of the committed mapping.
func (b *BlockIndex) Snapshot() map[Vec3i]*Entity {
	src := b.cells.Snapshot()
	out := make(map[Vec3i]*Entity, len(src))
	for pos, e := range src {
		out[pos] = e
	}
	return out
}
