package world

import "math"

// infiniteDistance stands in for "observer does not observe this chunk".
// Any view distance compares below it.
const infiniteDistance = math.MaxInt32

// pairKey identifies one (observer, entity) pair within a tick.
type pairKey struct {
	obs *Entity
	ent *Entity
}

// SyncEntities reconciles what each observer has been told about each
// entity's existence. It runs once per tick after FinalizeRun and before
// commit, comparing the committed view against the live view.
//
// Visibility at a point in time is distance <= viewDistance; the transition
// between the previous tick's pair (distOld, viewOld) and the current pair
// (distNew, viewNew) decides the message:
//
//	visible -> invisible   destroy
//	invisible -> visible   spawn
//	visible -> visible     update (plus destroy+spawn first when the
//	                       controller category changed since last tick)
//	invisible -> invisible nothing
//
// Three passes bound the cost. Pass 1 covers observers whose distance was
// re-recorded this tick against the committed population. Pass 2 covers
// entities that changed chunk membership or just spawned against chunk
// observers. Pass 3 emits steady-state updates. A pair decided by an
// earlier pass is skipped by later ones, so each pair receives at most one
// of {nothing, spawn, destroy, update, destroy+spawn+update} per tick.
func (r *Registry) SyncEntities() {
	obsSnap := r.observers.Snapshot()
	obsLive := r.observers.Live()
	entsSnap := r.entities.Snapshot()
	dirtyEnts := r.entities.Dirty()

	if len(obsSnap) == 0 && len(obsLive) == 0 {
		return
	}

	handled := make(map[pairKey]struct{})

	// Pass 1: dirty observers × committed population. Catches transitions
	// caused by the observer moving or by an entity's view radius changing.
	for _, p := range r.observers.DirtyKeys() {
		if !onlinePlayer(p) {
			continue
		}
		n := p.Synchronizer()
		if n == nil {
			continue
		}
		distOld := mappedDistance(obsSnap, p)
		distNew := mappedDistance(obsLive, p)
		for _, e := range entsSnap {
			if e == p {
				continue
			}
			key := pairKey{obs: p, ent: e}
			if _, done := handled[key]; done {
				continue
			}
			if emitTransition(n, e, distOld, r.liveDistanceOverride(e, distNew)) {
				handled[key] = struct{}{}
			}
		}
	}

	// Pass 2: entities that changed chunk membership or just spawned ×
	// current observers, with distances read from the old/new chunk.
	for _, e := range dirtyEnts {
		oldChunk := e.ChunkSnapshot()
		if e.JustSpawned() {
			oldChunk = nil
		}
		newChunk := e.ChunkLive()
		for p := range obsLive {
			if p == e || !onlinePlayer(p) {
				continue
			}
			n := p.Synchronizer()
			if n == nil {
				continue
			}
			key := pairKey{obs: p, ent: e}
			if _, done := handled[key]; done {
				continue
			}
			distOld := chunkDistance(oldChunk, p)
			distNew := chunkDistance(newChunk, p)
			if emitTransition(n, e, distOld, r.liveDistanceOverride(e, distNew)) {
				handled[key] = struct{}{}
			}
		}
	}

	// Pass 3: steady state. Routine updates for pairs with no transition
	// this tick, and the destroy+spawn rebuild when the controller category
	// changed while the entity stayed in view.
	for p, dist := range obsLive {
		if !onlinePlayer(p) {
			continue
		}
		n := p.Synchronizer()
		if n == nil {
			continue
		}
		for _, e := range entsSnap {
			r.steadySync(n, p, e, dist, handled)
		}
		// Entities added this tick are not in the committed population yet.
		for _, e := range dirtyEnts {
			if _, committed := entsSnap[e.ID()]; committed || !e.JustSpawned() {
				continue
			}
			r.steadySync(n, p, e, dist, handled)
		}
	}
}

func (r *Registry) steadySync(n Synchronizer, p, e *Entity, dist int, handled map[pairKey]struct{}) {
	if e == p {
		return
	}
	key := pairKey{obs: p, ent: e}
	if _, done := handled[key]; done {
		return
	}
	if dist > e.ViewDistance() {
		return
	}
	if _, present := r.entities.GetLive(e.ID()); !present {
		return
	}
	if e.JustSpawned() {
		// The observer has never been told about this entity.
		n.SpawnEntity(e)
		handled[key] = struct{}{}
		return
	}
	if e.PrevController() != e.Controller() {
		n.DestroyEntity(e)
		n.SpawnEntity(e)
	}
	n.SyncEntity(e)
	handled[key] = struct{}{}
}

// liveDistanceOverride forces distNew to infinite for entities no longer in
// the live table: a removed entity is invisible regardless of geometry, so
// observers that saw it get a destroy.
func (r *Registry) liveDistanceOverride(e *Entity, distNew int) int {
	if _, present := r.entities.GetLive(e.ID()); !present {
		return infiniteDistance
	}
	return distNew
}

// emitTransition applies the four-quantity rule for one pair and reports
// whether a spawn or destroy was sent.
func emitTransition(n Synchronizer, e *Entity, distOld, distNew int) bool {
	wasVisible := distOld <= e.PrevViewDistance()
	nowVisible := distNew <= e.ViewDistance()
	switch {
	case wasVisible && !nowVisible:
		n.DestroyEntity(e)
		return true
	case !wasVisible && nowVisible:
		n.SpawnEntity(e)
		return true
	}
	return false
}

func onlinePlayer(p *Entity) bool {
	return p != nil && p.Category() == CategoryPlayer && p.Online()
}

func mappedDistance(m map[*Entity]int, p *Entity) int {
	if d, ok := m[p]; ok {
		return d
	}
	return infiniteDistance
}

func chunkDistance(c Chunk, p *Entity) int {
	if c == nil || !c.IsLoaded() {
		return infiniteDistance
	}
	if d, ok := c.ObserverDistance(p); ok {
		return d
	}
	return infiniteDistance
}
