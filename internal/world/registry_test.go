package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntityAssignsID(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{X: 1, Y: 2, Z: 3}, 8)

	require.True(t, r.IsSpawnable(e))
	r.AddEntity(e, nil)

	assert.False(t, r.IsSpawnable(e))
	assert.Equal(t, EntityID(1), e.ID())

	// Not visible through the committed view until the tick commits.
	assert.Nil(t, r.GetEntity(e.ID()))
	r.CopyAllSnapshots()
	assert.Same(t, e, r.GetEntity(e.ID()))
}

func TestAllocateIsIdempotentForSpawnedEntities(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{}, 8)

	first := r.Allocate(e, nil)
	second := r.Allocate(e, nil)

	assert.Equal(t, first, second)
	r.CopyAllSnapshots()
	assert.Len(t, r.GetAll(), 1)
	assert.Len(t, r.GetAllByCategory(CategoryGeneric), 1)
}

func TestIDsNeverCollideAcrossRegistries(t *testing.T) {
	ids := NewIDSource()
	r1 := NewRegistry(ids)
	r2 := NewRegistry(ids)

	seen := make(map[EntityID]struct{})
	for i := 0; i < 50; i++ {
		e1 := NewEntity(generic(), Vec3{}, 8)
		e2 := NewEntity(generic(), Vec3{}, 8)
		r1.AddEntity(e1, nil)
		r2.AddEntity(e2, nil)
		for _, id := range []EntityID{e1.ID(), e2.ID()} {
			_, dup := seen[id]
			require.False(t, dup, "id %d issued twice", id)
			seen[id] = struct{}{}
		}
	}
}

func TestPlayerIDResetsOnRemove(t *testing.T) {
	r := NewRegistry(NewIDSource())
	p, _ := newOnlinePlayer(8)

	r.AddEntity(p, nil)
	oldID := p.ID()
	require.NotEqual(t, NotSpawned, oldID)

	r.RemoveEntity(p)
	assert.Equal(t, NotSpawned, p.ID())
	assert.True(t, r.IsSpawnable(p))

	// Re-adding the same player entity gets a fresh id.
	r.AddEntity(p, nil)
	assert.NotEqual(t, NotSpawned, p.ID())
	assert.NotEqual(t, oldID, p.ID())
}

func TestNonPlayerIDIsNotReused(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{}, 8)

	r.AddEntity(e, nil)
	r.RemoveEntity(e)

	// Non-players are discarded permanently: the id sticks.
	assert.False(t, r.IsSpawnable(e))
}

func TestPlayerRosterTracksRemoval(t *testing.T) {
	r := NewRegistry(NewIDSource())
	p, _ := newOnlinePlayer(8)
	q, _ := newOnlinePlayer(8)

	r.AddEntity(p, nil)
	r.AddEntity(q, nil)
	r.CopyAllSnapshots()
	require.Len(t, r.GetPlayers(), 2)

	r.RemoveEntity(p)
	// Committed roster unchanged until commit.
	assert.Len(t, r.GetPlayers(), 2)
	r.CopyAllSnapshots()
	assert.Equal(t, []*Entity{q}, r.GetPlayers())
}

func TestBlockEntityEviction(t *testing.T) {
	r := NewRegistry(NewIDSource())
	pos := Vec3{X: 4.7, Y: 1.2, Z: -3.4}
	first := NewEntity(block(), pos, 8)
	second := NewEntity(block(), pos, 8)

	r.AddEntity(first, nil)
	r.AddEntity(second, nil)

	// The displaced occupant is killed, not silently dropped.
	assert.True(t, first.Dead())
	assert.False(t, second.Dead())

	r.FinalizeRun()
	r.CopyAllSnapshots()

	blocks := r.GetBlockEntities()
	require.Len(t, blocks, 1)
	assert.Same(t, second, blocks[pos.Floor()])
	assert.Same(t, second, r.BlockEntityAt(pos.Floor()))
	assert.Nil(t, r.BlockEntityAt(Vec3i{X: 99}))

	evs := r.Evictions().Drain()
	require.Len(t, evs, 1)
	assert.Same(t, first, evs[0].Old)
	assert.Same(t, second, evs[0].New)
	assert.Equal(t, pos.Floor(), evs[0].Pos)
}

func TestBlockIndexStaleRemoveIsNoOp(t *testing.T) {
	pos := Vec3i{X: 1, Y: 2, Z: 3}
	idx := NewBlockIndex(nil)
	a := NewEntity(block(), Vec3{X: 1, Y: 2, Z: 3}, 8)
	b := NewEntity(block(), Vec3{X: 1, Y: 2, Z: 3}, 8)

	require.Nil(t, idx.Put(pos, a))
	assert.Same(t, a, idx.Put(pos, b))

	// a was evicted; its removal must not tear down b's mapping.
	assert.False(t, idx.Remove(pos, a))
	assert.Same(t, b, idx.GetLive(pos))

	assert.True(t, idx.Remove(pos, b))
	assert.Nil(t, idx.GetLive(pos))
}

func TestFinalizeRunRemovesDeadEntities(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{}, 8)
	r.AddEntity(e, nil)
	r.CopyAllSnapshots()

	e.Kill()
	r.FinalizeRun()

	_, live := r.Population()
	assert.Zero(t, live)

	r.CopyAllSnapshots()
	assert.Nil(t, r.GetEntity(e.ID()))

	deaths := r.Deaths().Drain()
	require.Len(t, deaths, 1)
	assert.Same(t, e, deaths[0].Entity)
}

func TestFinalizeRunFiresHooks(t *testing.T) {
	r := NewRegistry(NewIDSource())
	c := generic()
	e := NewEntity(c, Vec3{}, 8)
	p, rec := newOnlinePlayer(8)
	r.AddEntity(e, nil)
	r.AddEntity(p, nil)
	r.CopyAllSnapshots()

	r.FinalizeRun()
	assert.Equal(t, 1, c.finalized)
	assert.Equal(t, 1, rec.finalized)

	r.PreSnapshotRun()
	assert.Equal(t, 1, rec.preSnapshots)
}

func TestOfflinePlayerSkipsSynchronizerHooks(t *testing.T) {
	r := NewRegistry(NewIDSource())
	p, rec := newOnlinePlayer(8)
	p.SetOnline(false)
	r.AddEntity(p, nil)
	r.CopyAllSnapshots()

	r.FinalizeRun()
	r.PreSnapshotRun()
	assert.Zero(t, rec.finalized)
	assert.Zero(t, rec.preSnapshots)
}

func TestTypeIndexByCategory(t *testing.T) {
	r := NewRegistry(NewIDSource())
	g := NewEntity(generic(), Vec3{}, 8)
	p, _ := newOnlinePlayer(8)
	bare := NewEntity(nil, Vec3{}, 8)

	r.AddEntity(g, nil)
	r.AddEntity(p, nil)
	r.AddEntity(bare, nil)
	r.CopyAllSnapshots()

	assert.Equal(t, []*Entity{g}, r.GetAllByCategory(CategoryGeneric))
	assert.Equal(t, []*Entity{p}, r.GetAllByCategory(CategoryPlayer))
	assert.Equal(t, []*Entity{bare}, r.GetAllByCategory(CategoryNone))
	assert.Empty(t, r.GetAllByCategory(CategoryBlock))
}

func TestChangeControllerMovesTypeIndex(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{}, 8)
	r.AddEntity(e, nil)
	r.CopyAllSnapshots()

	r.ChangeController(e, player())
	assert.Equal(t, CategoryPlayer, e.Category())
	// Previous controller stays visible until commit.
	assert.Equal(t, CategoryGeneric, e.PrevController().Category())

	r.CopyAllSnapshots()
	assert.Empty(t, r.GetAllByCategory(CategoryGeneric))
	assert.Equal(t, []*Entity{e}, r.GetAllByCategory(CategoryPlayer))
	assert.Same(t, e.Controller(), e.PrevController())
}

func TestCopyAllSnapshotsIsIdempotent(t *testing.T) {
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{X: 5}, 8)
	r.AddEntity(e, nil)

	r.CopyAllSnapshots()
	all := r.GetAll()
	blocks := r.GetBlockEntities()

	r.CopyAllSnapshots()
	assert.Equal(t, all, r.GetAll())
	assert.Equal(t, blocks, r.GetBlockEntities())
	assert.Equal(t, Vec3{X: 5}, e.PositionSnapshot())
}

func TestDeallocateDetachesChunks(t *testing.T) {
	chunk := newStubChunk()
	region := &stubRegion{chunk: chunk}
	r := NewRegistry(NewIDSource())
	e := NewEntity(generic(), Vec3{}, 8)

	r.AddEntity(e, region)
	r.CopyAllSnapshots()
	r.FinalizeRun() // binds the live chunk
	require.Contains(t, chunk.entities, e)
	r.CopyAllSnapshots()

	r.RemoveEntity(e)
	assert.NotContains(t, chunk.entities, e)
}
