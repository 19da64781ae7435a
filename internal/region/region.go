package region

import (
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/core/snapshot"
	"github.com/voxelgate/server/internal/world"
)

// Region is one 16x16x16-chunk slab of the world with its own entity
// registry and its own tick affinity. All live mutation happens on the
// goroutine ticking the region; committed snapshots may be read from
// anywhere.
type Region struct {
	log   *zap.Logger
	coord world.Vec3i // region coordinates (block >> RegionBits)

	registry *world.Registry
	mgr      *snapshot.Manager // chunk-level snapshot state
	chunks   map[world.Vec3i]*Chunk

	// Chunks each observer currently observes, for distance aggregation.
	observed map[*world.Entity]map[world.Vec3i]struct{}
}

// New creates an empty region. ids is the process-wide id source shared by
// every region.
func New(log *zap.Logger, coord world.Vec3i, ids *world.IDSource) *Region {
	return &Region{
		log:      log.With(zap.Int32("rx", coord.X), zap.Int32("ry", coord.Y), zap.Int32("rz", coord.Z)),
		coord:    coord,
		registry: world.NewRegistry(ids),
		mgr:      snapshot.NewManager(),
		chunks:   make(map[world.Vec3i]*Chunk),
		observed: make(map[*world.Entity]map[world.Vec3i]struct{}),
	}
}

func (r *Region) Coord() world.Vec3i        { return r.coord }
func (r *Region) Registry() *world.Registry { return r.registry }

// ChunkAt resolves the loaded chunk containing a block position, nil if
// that chunk is not loaded.
func (r *Region) ChunkAt(pos world.Vec3i) world.Chunk {
	c, ok := r.chunks[ChunkCoord(pos)]
	if !ok || !c.loaded {
		return nil
	}
	return c
}

// Chunks returns the loaded chunks. Order is unspecified.
func (r *Region) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if c.loaded {
			out = append(out, c)
		}
	}
	return out
}

// LoadChunk loads (or returns) the chunk at chunk coordinates cc.
func (r *Region) LoadChunk(cc world.Vec3i) *Chunk {
	if c, ok := r.chunks[cc]; ok {
		c.loaded = true
		return c
	}
	c := newChunk(cc, r.mgr)
	r.chunks[cc] = c
	r.log.Debug("chunk loaded", zap.Int32("cx", cc.X), zap.Int32("cy", cc.Y), zap.Int32("cz", cc.Z))
	return c
}

// UnloadChunk marks the chunk at cc unloaded and kills its remaining
// entities; FinalizeRun tears them down on the next tick.
func (r *Region) UnloadChunk(cc world.Vec3i) {
	c, ok := r.chunks[cc]
	if !ok || !c.loaded {
		return
	}
	c.loaded = false
	for e := range c.entities {
		e.Kill()
	}
	for obs := range c.observers.Live() {
		r.RemoveChunkObserver(cc, obs)
	}
	// The chunk set changed under everybody: re-record the surviving
	// aggregates so the next visibility pass reconciles all observers.
	r.RefreshObservers()
	r.log.Debug("chunk unloaded", zap.Int32("cx", cc.X), zap.Int32("cy", cc.Y), zap.Int32("cz", cc.Z), zap.Int("stranded", len(c.entities)))
}

// Spawn adds e to this region's registry, binding it on the next
// FinalizeRun to the chunk under its position.
func (r *Region) Spawn(e *world.Entity) world.EntityID {
	r.registry.AddEntity(e, r)
	return e.ID()
}

// SetChunkObserver records obs's distance (chunk units) to the chunk at cc
// and refreshes the region-level aggregate pushed into the registry. Which
// chunks an observer observes, and at what distance, is the caller's
// policy; the region only stores what it is told.
func (r *Region) SetChunkObserver(cc world.Vec3i, obs *world.Entity, dist int) {
	c := r.LoadChunk(cc)
	c.observers.Put(obs, dist)

	set, ok := r.observed[obs]
	if !ok {
		set = make(map[world.Vec3i]struct{})
		r.observed[obs] = set
	}
	set[cc] = struct{}{}
	r.pushAggregate(obs)
}

// RemoveChunkObserver forgets obs on the chunk at cc. When obs observes no
// chunk of the region anymore it is dropped from the registry's observer
// table.
func (r *Region) RemoveChunkObserver(cc world.Vec3i, obs *world.Entity) {
	if c, ok := r.chunks[cc]; ok {
		c.observers.Remove(obs)
	}
	if set, ok := r.observed[obs]; ok {
		delete(set, cc)
		if len(set) == 0 {
			delete(r.observed, obs)
		}
	}
	r.pushAggregate(obs)
}

// RefreshObservers re-records every observer's aggregate, marking them all
// dirty for the next visibility pass. UnloadChunk runs it after the chunk
// set changes; routine movement marks observers dirty through
// SetChunkObserver already.
func (r *Region) RefreshObservers() {
	for obs := range r.observed {
		r.pushAggregate(obs)
	}
}

// DropObserver forgets obs on every chunk it observes and removes it from
// the registry's observer table. Called when the observer leaves the world.
func (r *Region) DropObserver(obs *world.Entity) {
	set, ok := r.observed[obs]
	if !ok {
		return
	}
	for cc := range set {
		if c, chOK := r.chunks[cc]; chOK {
			c.observers.Remove(obs)
		}
	}
	delete(r.observed, obs)
	r.registry.RemoveObserver(obs)
}

// pushAggregate records the minimum chunk distance across all chunks obs
// observes as its region-level distance.
func (r *Region) pushAggregate(obs *world.Entity) {
	set, ok := r.observed[obs]
	if !ok || len(set) == 0 {
		r.registry.RemoveObserver(obs)
		return
	}
	min := -1
	for cc := range set {
		c, ok := r.chunks[cc]
		if !ok {
			continue
		}
		if d, ok := c.observers.GetLive(obs); ok && (min < 0 || d < min) {
			min = d
		}
	}
	if min < 0 {
		r.registry.RemoveObserver(obs)
		return
	}
	r.registry.SetObserverDistance(obs, min)
}

// CopyAllSnapshots commits the registry and the chunk observer tables.
// Commit phase only.
func (r *Region) CopyAllSnapshots() {
	r.registry.CopyAllSnapshots()
	r.mgr.CopyAllSnapshots()
}
