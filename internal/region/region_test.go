package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/world"
)

type noopController struct{ cat world.Category }

func (c noopController) Category() world.Category { return c.cat }
func (c noopController) FinalizeTick()            {}

func newRegion(t *testing.T) *Region {
	t.Helper()
	return New(zap.NewNop(), world.Vec3i{}, world.NewIDSource())
}

func TestChunkCoordFloorsNegativeBlocks(t *testing.T) {
	cases := []struct {
		block world.Vec3i
		chunk world.Vec3i
	}{
		{world.Vec3i{X: 0, Y: 0, Z: 0}, world.Vec3i{X: 0, Y: 0, Z: 0}},
		{world.Vec3i{X: 15, Y: 15, Z: 15}, world.Vec3i{X: 0, Y: 0, Z: 0}},
		{world.Vec3i{X: 16, Y: 31, Z: 47}, world.Vec3i{X: 1, Y: 1, Z: 2}},
		{world.Vec3i{X: -1, Y: -16, Z: -17}, world.Vec3i{X: -1, Y: -1, Z: -2}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.chunk, ChunkCoord(tc.block), "block %v", tc.block)
	}
}

func TestChunkAtReturnsNilForUnloaded(t *testing.T) {
	r := newRegion(t)
	assert.Nil(t, r.ChunkAt(world.Vec3i{X: 5, Y: 5, Z: 5}))

	r.LoadChunk(world.Vec3i{})
	require.NotNil(t, r.ChunkAt(world.Vec3i{X: 5, Y: 5, Z: 5}))

	r.UnloadChunk(world.Vec3i{})
	assert.Nil(t, r.ChunkAt(world.Vec3i{X: 5, Y: 5, Z: 5}))
}

func TestSpawnBindsEntityToChunkOnFinalize(t *testing.T) {
	r := newRegion(t)
	c := r.LoadChunk(world.Vec3i{})
	e := world.NewEntity(noopController{world.CategoryGeneric}, world.Vec3{X: 3, Y: 1, Z: 3}, 4)

	id := r.Spawn(e)
	require.NotEqual(t, world.NotSpawned, id)

	r.CopyAllSnapshots()
	r.Registry().FinalizeRun()

	assert.Contains(t, c.Entities(), e)
	assert.Equal(t, world.Chunk(c), e.ChunkLive())
}

func TestObserverAggregateIsMinimumChunkDistance(t *testing.T) {
	r := newRegion(t)
	obs := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{}, 8)

	r.SetChunkObserver(world.Vec3i{X: 0}, obs, 7)
	r.SetChunkObserver(world.Vec3i{X: 1}, obs, 3)
	r.SetChunkObserver(world.Vec3i{X: 2}, obs, 5)
	r.CopyAllSnapshots()

	d, ok := r.Registry().ObserverDistance(obs)
	require.True(t, ok)
	assert.Equal(t, 3, d)

	// Dropping the closest chunk re-aggregates to the next best.
	r.RemoveChunkObserver(world.Vec3i{X: 1}, obs)
	r.CopyAllSnapshots()
	d, ok = r.Registry().ObserverDistance(obs)
	require.True(t, ok)
	assert.Equal(t, 5, d)
}

func TestRemovingLastChunkDropsObserver(t *testing.T) {
	r := newRegion(t)
	obs := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{}, 8)

	r.SetChunkObserver(world.Vec3i{}, obs, 2)
	r.RemoveChunkObserver(world.Vec3i{}, obs)
	r.CopyAllSnapshots()

	_, ok := r.Registry().ObserverDistance(obs)
	assert.False(t, ok)
}

func TestUnloadChunkKillsStrandedEntities(t *testing.T) {
	r := newRegion(t)
	r.LoadChunk(world.Vec3i{})
	e := world.NewEntity(noopController{world.CategoryGeneric}, world.Vec3{X: 1, Y: 1, Z: 1}, 4)
	r.Spawn(e)
	r.CopyAllSnapshots()
	r.Registry().FinalizeRun()

	r.UnloadChunk(world.Vec3i{})
	assert.True(t, e.Dead())
}

func TestUnloadChunkReaggregatesSurvivingObservers(t *testing.T) {
	r := newRegion(t)
	obs := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{}, 8)
	other := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{}, 8)

	r.SetChunkObserver(world.Vec3i{X: 0}, obs, 2)
	r.SetChunkObserver(world.Vec3i{X: 1}, obs, 4)
	r.SetChunkObserver(world.Vec3i{X: 1}, other, 6)

	r.UnloadChunk(world.Vec3i{X: 0})
	r.CopyAllSnapshots()

	d, ok := r.Registry().ObserverDistance(obs)
	require.True(t, ok)
	assert.Equal(t, 4, d, "aggregate falls back to the remaining chunk")

	d, ok = r.Registry().ObserverDistance(other)
	require.True(t, ok)
	assert.Equal(t, 6, d, "observers of untouched chunks keep their distance")
}

func TestManagerPlayersSpansRegions(t *testing.T) {
	m := NewManager(zap.NewNop(), world.NewIDSource())

	a := m.RegionAt(world.Vec3i{X: 10})
	b := m.RegionAt(world.Vec3i{X: 300})
	p := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{X: 10}, 8)
	q := world.NewEntity(noopController{world.CategoryPlayer}, world.Vec3{X: 300}, 8)
	n := world.NewEntity(noopController{world.CategoryGeneric}, world.Vec3{X: 11}, 8)
	a.Spawn(p)
	a.Spawn(n)
	b.Spawn(q)
	a.CopyAllSnapshots()
	b.CopyAllSnapshots()

	players := m.Players()
	assert.ElementsMatch(t, []*world.Entity{p, q}, players)
}

func TestManagerRoutesBlocksToRegions(t *testing.T) {
	m := NewManager(zap.NewNop(), world.NewIDSource())

	// Regions span 1<<RegionBits = 256 blocks per axis, so X=300 lands in
	// the neighbor region while X=10 and X=30 share one.
	a := m.RegionAt(world.Vec3i{X: 10, Y: 10, Z: 10})
	b := m.RegionAt(world.Vec3i{X: 300, Y: 10, Z: 10})
	again := m.RegionAt(world.Vec3i{X: 30, Y: 30, Z: 30})

	assert.Same(t, a, again, "blocks of one region share the instance")
	assert.NotSame(t, a, b)
	assert.Len(t, m.All(), 2)
}

func TestManagerSharesIDSourceAcrossRegions(t *testing.T) {
	m := NewManager(zap.NewNop(), world.NewIDSource())
	a := m.RegionAt(world.Vec3i{X: 0})
	b := m.RegionAt(world.Vec3i{X: 1000})

	e1 := world.NewEntity(noopController{world.CategoryGeneric}, world.Vec3{}, 4)
	e2 := world.NewEntity(noopController{world.CategoryGeneric}, world.Vec3{}, 4)
	a.Spawn(e1)
	b.Spawn(e2)

	assert.NotEqual(t, e1.ID(), e2.ID())
}
