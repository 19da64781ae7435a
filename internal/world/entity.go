package world

// Category classifies an entity's controller behavior. The registry switches
// on it explicitly instead of on controller types.
type Category int8

const (
	CategoryNone    Category = iota // no controller attached
	CategoryGeneric                 // plain simulated entity
	CategoryPlayer                  // player-controlled, has a synchronizer
	CategoryBlock                   // bound to a single block cell
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryGeneric:
		return "generic"
	case CategoryPlayer:
		return "player"
	case CategoryBlock:
		return "block"
	}
	return "unknown"
}

// Controller supplies an entity's behavior. Controllers are externally
// owned; the registry only reads the category and fires the per-tick hook.
type Controller interface {
	Category() Category
	FinalizeTick()
}

// Synchronizer is a player's network channel. The registry dispatches
// visibility obligations to it; wire encoding is the implementer's problem.
type Synchronizer interface {
	SpawnEntity(e *Entity)
	DestroyEntity(e *Entity)
	SyncEntity(e *Entity)
	FinalizeTick()
	PreSnapshot()
}

// Chunk is the slice of the spatial layer the registry needs: loadedness,
// entity membership teardown, and live observer distances.
type Chunk interface {
	IsLoaded() bool
	AddEntity(e *Entity)
	RemoveEntity(e *Entity)
	// ObserverDistance returns obs's current (live) distance to this chunk
	// in chunk units, or false if obs does not observe it.
	ObserverDistance(obs *Entity) (int, bool)
}

// Region is the execution-affinity handle an entity is pinned to. ChunkAt
// resolves the chunk containing a block position, nil if unloaded.
type Region interface {
	ChunkAt(pos Vec3i) Chunk
}

// Entity is a simulation-visible actor. All double-buffered fields follow
// the live/snapshot discipline: setters touch the live copy, CopySnapshot
// commits it. Mutated only on the owning region's goroutine.
type Entity struct {
	id EntityID

	controller     Controller
	prevController Controller

	pos     Vec3
	posSnap Vec3

	viewDistance     int
	prevViewDistance int

	chunkLive Chunk
	chunkSnap Chunk

	owner Region

	dead        bool
	justSpawned bool

	// Player-only state. Meaningful when the controller category is
	// CategoryPlayer; zero otherwise.
	online bool
	sync   Synchronizer
}

// NewEntity creates an unspawned entity. The id stays NotSpawned until a
// registry allocates it.
func NewEntity(c Controller, pos Vec3, viewDistance int) *Entity {
	return &Entity{
		id:               NotSpawned,
		controller:       c,
		prevController:   c,
		pos:              pos,
		posSnap:          pos,
		viewDistance:     viewDistance,
		prevViewDistance: viewDistance,
		justSpawned:      true,
	}
}

func (e *Entity) ID() EntityID { return e.id }

// Category is the live controller category; CategoryNone without controller.
func (e *Entity) Category() Category {
	if e.controller == nil {
		return CategoryNone
	}
	return e.controller.Category()
}

func (e *Entity) Controller() Controller     { return e.controller }
func (e *Entity) PrevController() Controller { return e.prevController }

func (e *Entity) Position() Vec3         { return e.pos }
func (e *Entity) PositionSnapshot() Vec3 { return e.posSnap }
func (e *Entity) SetPosition(p Vec3)     { e.pos = p }

func (e *Entity) ViewDistance() int     { return e.viewDistance }
func (e *Entity) PrevViewDistance() int { return e.prevViewDistance }
func (e *Entity) SetViewDistance(d int) { e.viewDistance = d }

func (e *Entity) ChunkLive() Chunk     { return e.chunkLive }
func (e *Entity) ChunkSnapshot() Chunk { return e.chunkSnap }

func (e *Entity) Owner() Region { return e.owner }

// Kill marks the entity dead. It is removed from its registry during the
// next FinalizeRun.
func (e *Entity) Kill()      { e.dead = true }
func (e *Entity) Dead() bool { return e.dead }

// JustSpawned reports whether the entity was added since the last commit.
func (e *Entity) JustSpawned() bool { return e.justSpawned }

func (e *Entity) IsPlayer() bool { return e.Category() == CategoryPlayer }

func (e *Entity) Online() bool      { return e.online }
func (e *Entity) SetOnline(on bool) { e.online = on }

func (e *Entity) Synchronizer() Synchronizer     { return e.sync }
func (e *Entity) SetSynchronizer(s Synchronizer) { e.sync = s }

// FinalizeRun is the entity's per-tick finalize hook: it reconciles live
// chunk membership with the live position. Reports whether membership
// changed, so the registry can mark the entity structurally dirty.
func (e *Entity) FinalizeRun() bool {
	if e.owner == nil {
		return false
	}
	c := e.owner.ChunkAt(e.pos.Floor())
	if c == e.chunkLive {
		return false
	}
	if e.chunkLive != nil && e.chunkLive.IsLoaded() {
		e.chunkLive.RemoveEntity(e)
	}
	if c != nil {
		c.AddEntity(e)
	}
	e.chunkLive = c
	return true
}

// CopySnapshot commits the entity's double-buffered state. Called only by
// Registry.CopyAllSnapshots during the commit phase.
func (e *Entity) CopySnapshot() {
	e.posSnap = e.pos
	e.prevViewDistance = e.viewDistance
	e.prevController = e.controller
	e.chunkSnap = e.chunkLive
	e.justSpawned = false
}
