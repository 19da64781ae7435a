package handler

import (
	"math"

	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/world"
)

// HandleMove processes C_MOVE. The server trusts the client's position;
// collision is the client's problem. Movement only mutates live state, so
// the visibility pass sees it at the next tick boundary.
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) {
	x := r.ReadF()
	y := r.ReadF()
	z := r.ReadF()
	if !finite(x) || !finite(y) || !finite(z) {
		return
	}

	p := deps.Online.Get(sess.ID)
	if p == nil {
		return
	}
	p.Entity.SetPosition(world.Vec3{X: x, Y: y, Z: z})
	RefreshObservation(deps, p)
}

// HandleViewDistance processes C_VIEWDIST, clamped to the server maximum.
func HandleViewDistance(sess *net.Session, r *packet.Reader, deps *Deps) {
	chunks := int(r.ReadH())
	p := deps.Online.Get(sess.ID)
	if p == nil {
		return
	}
	p.Entity.SetViewDistance(clampView(chunks, deps.Config.World.MaxViewDist))
	RefreshObservation(deps, p)
}

// RefreshObservation re-records the player's observer distances: every
// loaded chunk of its region within the maximum view radius, at Chebyshev
// chunk distance. Re-recording also marks the observer dirty, which is
// what schedules the next visibility pass for it.
func RefreshObservation(deps *Deps, p *OnlinePlayer) {
	own := chunkOf(p.Entity.Position())
	max := deps.Config.World.MaxViewDist
	for _, c := range p.Region.Chunks() {
		d := chebyshev(own, c.Coord())
		if d <= max {
			p.Region.SetChunkObserver(c.Coord(), p.Entity, d)
		} else {
			p.Region.RemoveChunkObserver(c.Coord(), p.Entity)
		}
	}
}

func chunkOf(pos world.Vec3) world.Vec3i {
	return region.ChunkCoord(pos.Floor())
}

func chebyshev(a, b world.Vec3i) int {
	dx := abs32(a.X - b.X)
	dy := abs32(a.Y - b.Y)
	dz := abs32(a.Z - b.Z)
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return int(m)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
