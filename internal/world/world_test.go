package world

// Shared test doubles for the world package.

type stubController struct {
	cat       Category
	finalized int
}

func (c *stubController) Category() Category { return c.cat }
func (c *stubController) FinalizeTick()      { c.finalized++ }

func generic() *stubController { return &stubController{cat: CategoryGeneric} }
func player() *stubController  { return &stubController{cat: CategoryPlayer} }
func block() *stubController   { return &stubController{cat: CategoryBlock} }

// syncCall records one synchronizer invocation.
type syncCall struct {
	op string // "spawn", "destroy", "update"
	e  *Entity
}

// recordingSync implements Synchronizer and keeps every call in order.
type recordingSync struct {
	calls        []syncCall
	finalized    int
	preSnapshots int
}

func (s *recordingSync) SpawnEntity(e *Entity)   { s.calls = append(s.calls, syncCall{"spawn", e}) }
func (s *recordingSync) DestroyEntity(e *Entity) { s.calls = append(s.calls, syncCall{"destroy", e}) }
func (s *recordingSync) SyncEntity(e *Entity)    { s.calls = append(s.calls, syncCall{"update", e}) }
func (s *recordingSync) FinalizeTick()           { s.finalized++ }
func (s *recordingSync) PreSnapshot()            { s.preSnapshots++ }

// callsFor filters the recorded ops touching e.
func (s *recordingSync) callsFor(e *Entity) []string {
	var ops []string
	for _, c := range s.calls {
		if c.e == e {
			ops = append(ops, c.op)
		}
	}
	return ops
}

func (s *recordingSync) reset() { s.calls = nil }

// stubChunk is a loaded chunk with a fixed observer distance table.
type stubChunk struct {
	loaded    bool
	entities  map[*Entity]struct{}
	observers map[*Entity]int
}

func newStubChunk() *stubChunk {
	return &stubChunk{
		loaded:    true,
		entities:  make(map[*Entity]struct{}),
		observers: make(map[*Entity]int),
	}
}

func (c *stubChunk) IsLoaded() bool         { return c.loaded }
func (c *stubChunk) AddEntity(e *Entity)    { c.entities[e] = struct{}{} }
func (c *stubChunk) RemoveEntity(e *Entity) { delete(c.entities, e) }

func (c *stubChunk) ObserverDistance(obs *Entity) (int, bool) {
	d, ok := c.observers[obs]
	return d, ok
}

// stubRegion resolves every block position to one chunk.
type stubRegion struct {
	chunk *stubChunk
}

func (r *stubRegion) ChunkAt(Vec3i) Chunk {
	if r.chunk == nil {
		return nil
	}
	return r.chunk
}

// newOnlinePlayer builds a spawned-ready player entity with a recording
// synchronizer attached.
func newOnlinePlayer(viewDistance int) (*Entity, *recordingSync) {
	rec := &recordingSync{}
	p := NewEntity(player(), Vec3{}, viewDistance)
	p.SetOnline(true)
	p.SetSynchronizer(rec)
	return p, rec
}
