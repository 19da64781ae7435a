package world

import (
	"github.com/voxelgate/server/internal/core/event"
	"github.com/voxelgate/server/internal/core/snapshot"
)

// Death reports an entity torn down by FinalizeRun because it was dead.
type Death struct {
	Entity *Entity
}

// Eviction reports a block entity displaced (and killed) by a newcomer.
type Eviction struct {
	Old *Entity
	New *Entity
	Pos Vec3i
}

// Registry tracks the entities of one region: the id table, the
// per-category index, the player roster, the block-entity index, and the
// observer distances used by SyncEntities. All tracked structures are
// snapshot-isolated; live mutation happens only on the region's goroutine,
// reads of the committed view are safe from anywhere.
type Registry struct {
	mgr *snapshot.Manager
	ids *IDSource

	entities   *snapshot.Map[EntityID, *Entity]
	byCategory map[Category]*snapshot.List[*Entity]
	players    *snapshot.List[*Entity]
	blocks     *BlockIndex

	// Aggregated observer distances for this region (chunk units); the
	// region layer reports them, the registry only stores and diffs.
	observers *snapshot.Map[*Entity, int]

	deaths    *event.Queue[Death]
	evictions *event.Queue[Eviction]
}

// NewRegistry creates the registry for one region. ids is shared across
// all registries in the process.
func NewRegistry(ids *IDSource) *Registry {
	mgr := snapshot.NewManager()
	r := &Registry{
		mgr:        mgr,
		ids:        ids,
		entities:   snapshot.NewMap[EntityID, *Entity](mgr),
		byCategory: make(map[Category]*snapshot.List[*Entity]),
		players:    snapshot.NewList[*Entity](mgr),
		observers:  snapshot.NewMap[*Entity, int](mgr),
		deaths:     event.NewQueue[Death](),
		evictions:  event.NewQueue[Eviction](),
	}
	r.blocks = NewBlockIndex(mgr)
	mgr.Add(r.deaths)
	mgr.Add(r.evictions)
	return r
}

func (r *Registry) categoryList(c Category) *snapshot.List[*Entity] {
	l, ok := r.byCategory[c]
	if !ok {
		l = snapshot.NewList[*Entity](r.mgr)
		r.byCategory[c] = l
	}
	return l
}

// Allocate gives e an id if it has none, pins it to region, and inserts it
// into the entity table and type index. Allocating an already-spawned
// entity only re-pins it and returns the existing id.
func (r *Registry) Allocate(e *Entity, region Region) EntityID {
	if e.id == NotSpawned {
		e.id = r.ids.Next()
	}
	if _, ok := r.entities.GetLive(e.id); !ok {
		r.entities.Put(e.id, e)
		r.categoryList(e.Category()).Add(e)
	}
	if region != nil {
		e.owner = region
	}
	return e.id
}

// Deallocate removes e from the entity table, type index and observer set,
// and detaches it from both its live and committed chunks. Players keep
// their entity; only the id resets to NotSpawned for later reuse.
func (r *Registry) Deallocate(e *Entity) {
	if _, ok := r.entities.Remove(e.id); ok {
		r.categoryList(e.Category()).Remove(e)
	}
	r.observers.Remove(e)
	if c := e.chunkLive; c != nil && c.IsLoaded() {
		c.RemoveEntity(e)
	}
	if c := e.chunkSnap; c != nil && c != e.chunkLive && c.IsLoaded() {
		c.RemoveEntity(e)
	}
	if e.IsPlayer() {
		e.id = NotSpawned
	}
}

// AddEntity spawns e into the region: allocates an id and, per controller
// category, joins the player roster or the block-entity index. A displaced
// block occupant is killed and reported on the eviction queue.
func (r *Registry) AddEntity(e *Entity, region Region) {
	r.Allocate(e, region)
	switch e.Category() {
	case CategoryPlayer:
		r.players.Add(e)
	case CategoryBlock:
		pos := e.pos.Floor()
		if old := r.blocks.Put(pos, e); old != nil {
			old.Kill()
			r.evictions.Emit(Eviction{Old: old, New: e, Pos: pos})
		}
	}
}

// RemoveEntity is the symmetric teardown of AddEntity.
func (r *Registry) RemoveEntity(e *Entity) {
	cat := e.Category()
	r.Deallocate(e)
	switch cat {
	case CategoryPlayer:
		r.players.Remove(e)
	case CategoryBlock:
		r.blocks.Remove(e.pos.Floor(), e)
	}
}

// IsSpawnable reports whether e holds no id and may be added.
func (r *Registry) IsSpawnable(e *Entity) bool {
	return e.id == NotSpawned
}

// ChangeController swaps e's live controller and moves it between type
// index lists. The previous controller stays visible to SyncEntities until
// the next commit, which is what triggers the destroy+spawn rebuild for
// observers that keep the entity in view.
func (r *Registry) ChangeController(e *Entity, c Controller) {
	if _, ok := r.entities.GetLive(e.id); ok {
		r.categoryList(e.Category()).Remove(e)
		r.categoryList(categoryOf(c)).Add(e)
	}
	e.controller = c
}

func categoryOf(c Controller) Category {
	if c == nil {
		return CategoryNone
	}
	return c.Category()
}

// SetObserverDistance records obs's live distance (chunk units) to this
// region. Re-recording marks the observer dirty even if the value is
// unchanged, which is what schedules it for the next visibility pass.
func (r *Registry) SetObserverDistance(obs *Entity, dist int) {
	r.observers.Put(obs, dist)
}

// ObserverDistance returns obs's committed region-level distance.
func (r *Registry) ObserverDistance(obs *Entity) (int, bool) {
	return r.observers.Get(obs)
}

// RemoveObserver forgets obs. Unknown observers are a no-op.
func (r *Registry) RemoveObserver(obs *Entity) {
	r.observers.Remove(obs)
}

// GetEntity returns the committed entity for id, nil if absent.
func (r *Registry) GetEntity(id EntityID) *Entity {
	e, _ := r.entities.Get(id)
	return e
}

// GetAll returns a copy of the committed entity population.
func (r *Registry) GetAll() []*Entity {
	src := r.entities.Snapshot()
	out := make([]*Entity, 0, len(src))
	for _, e := range src {
		out = append(out, e)
	}
	return out
}

// GetAllLive returns a copy of the in-progress entity population.
func (r *Registry) GetAllLive() []*Entity {
	src := r.entities.Live()
	out := make([]*Entity, 0, len(src))
	for _, e := range src {
		out = append(out, e)
	}
	return out
}

// GetAllByCategory returns the committed entities of one category. Absent
// categories yield an empty slice.
func (r *Registry) GetAllByCategory(c Category) []*Entity {
	l, ok := r.byCategory[c]
	if !ok {
		return nil
	}
	return l.Get()
}

// GetPlayers returns the committed player roster.
func (r *Registry) GetPlayers() []*Entity {
	return r.players.Get()
}

// GetBlockEntities returns a copy of the committed block-entity mapping.
func (r *Registry) GetBlockEntities() map[Vec3i]*Entity {
	return r.blocks.Snapshot()
}

// BlockEntityAt returns the committed occupant of a block cell, nil if
// free.
func (r *Registry) BlockEntityAt(pos Vec3i) *Entity {
	return r.blocks.Get(pos)
}

// Deaths is the queue of entities torn down last tick.
func (r *Registry) Deaths() *event.Queue[Death] { return r.deaths }

// Evictions is the queue of block-entity displacements from last tick.
func (r *Registry) Evictions() *event.Queue[Eviction] { return r.evictions }

// Population returns committed and live entity counts.
func (r *Registry) Population() (committed, live int) {
	return r.entities.Len(), r.entities.LenLive()
}

// FinalizeRun runs once per tick before commit: dead entities cascade
// through RemoveEntity, everything else gets its finalize hooks, and
// online players flush pending synchronizer work.
func (r *Registry) FinalizeRun() {
	for _, e := range r.entities.Snapshot() {
		if e.Dead() {
			r.RemoveEntity(e)
			r.deaths.Emit(Death{Entity: e})
			continue
		}
		if e.FinalizeRun() {
			// Chunk membership changed: mark the entity structurally
			// dirty so the visibility pass reconciles chunk observers.
			r.entities.Put(e.id, e)
		}
		c := e.Controller()
		if c == nil {
			continue
		}
		c.FinalizeTick()
		if e.IsPlayer() && e.Online() {
			if n := e.Synchronizer(); n != nil {
				n.FinalizeTick()
			}
		}
	}
}

// PreSnapshotRun runs immediately before commit: online players observe the
// live view one last time before it becomes the baseline.
func (r *Registry) PreSnapshotRun() {
	for _, e := range r.entities.Snapshot() {
		if e.Controller() == nil {
			continue
		}
		if e.IsPlayer() && e.Online() {
			if n := e.Synchronizer(); n != nil {
				n.PreSnapshot()
			}
		}
	}
}

// CopyAllSnapshots commits every entity's double-buffered state and the
// registry's own structures. Must run strictly after FinalizeRun,
// SyncEntities and PreSnapshotRun for the tick; the tick runner confines it
// to the commit phase.
func (r *Registry) CopyAllSnapshots() {
	for _, e := range r.entities.Live() {
		e.CopySnapshot()
	}
	r.mgr.CopyAllSnapshots()
}
