package region

import (
	"github.com/voxelgate/server/internal/core/snapshot"
	"github.com/voxelgate/server/internal/world"
)

const (
	// ChunkBits is the block-to-chunk coordinate shift. Chunks are
	// ChunkSize^3 blocks.
	ChunkBits = 4
	ChunkSize = 1 << ChunkBits

	// RegionBits is the block-to-region coordinate shift. Regions are
	// 16x16x16 chunks.
	RegionBits = ChunkBits + 4
)

// Chunk is one ChunkSize^3 cell of a region. It tracks live entity
// membership and a snapshot-isolated observer-distance table. Mutated only
// on the region's goroutine.
type Chunk struct {
	coord  world.Vec3i // chunk coordinates (block >> ChunkBits)
	loaded bool

	entities  map[*world.Entity]struct{}
	observers *snapshot.Map[*world.Entity, int]
}

func newChunk(coord world.Vec3i, mgr *snapshot.Manager) *Chunk {
	return &Chunk{
		coord:     coord,
		loaded:    true,
		entities:  make(map[*world.Entity]struct{}),
		observers: snapshot.NewMap[*world.Entity, int](mgr),
	}
}

// Coord returns the chunk coordinates.
func (c *Chunk) Coord() world.Vec3i { return c.coord }

func (c *Chunk) IsLoaded() bool { return c.loaded }

func (c *Chunk) AddEntity(e *world.Entity) {
	c.entities[e] = struct{}{}
}

func (c *Chunk) RemoveEntity(e *world.Entity) {
	delete(c.entities, e)
}

// ObserverDistance returns obs's live distance to this chunk in chunk
// units, false if obs does not observe it.
func (c *Chunk) ObserverDistance(obs *world.Entity) (int, bool) {
	return c.observers.GetLive(obs)
}

// Entities returns a copy of the live membership set.
func (c *Chunk) Entities() []*world.Entity {
	out := make([]*world.Entity, 0, len(c.entities))
	for e := range c.entities {
		out = append(out, e)
	}
	return out
}

// ChunkCoord converts a block position to chunk coordinates. Arithmetic
// shift keeps flooring correct for negative blocks.
func ChunkCoord(pos world.Vec3i) world.Vec3i {
	return world.Vec3i{
		X: pos.X >> ChunkBits,
		Y: pos.Y >> ChunkBits,
		Z: pos.Z >> ChunkBits,
	}
}

// regionCoord converts a block position to region coordinates.
func regionCoord(pos world.Vec3i) world.Vec3i {
	return world.Vec3i{
		X: pos.X >> RegionBits,
		Y: pos.Y >> RegionBits,
		Z: pos.Z >> RegionBits,
	}
}
