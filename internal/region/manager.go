package region

import (
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/world"
)

// Manager owns every loaded region and the shared id source. Game loop
// goroutine only.
type Manager struct {
	log     *zap.Logger
	ids     *world.IDSource
	regions map[world.Vec3i]*Region
}

func NewManager(log *zap.Logger, ids *world.IDSource) *Manager {
	return &Manager{
		log:     log,
		ids:     ids,
		regions: make(map[world.Vec3i]*Region),
	}
}

// RegionAt returns the region containing a block position, loading it on
// first touch.
func (m *Manager) RegionAt(pos world.Vec3i) *Region {
	rc := regionCoord(pos)
	if r, ok := m.regions[rc]; ok {
		return r
	}
	r := New(m.log, rc, m.ids)
	m.regions[rc] = r
	m.log.Info("region loaded", zap.Int32("rx", rc.X), zap.Int32("ry", rc.Y), zap.Int32("rz", rc.Z))
	return r
}

// Get returns the region at region coordinates rc if loaded.
func (m *Manager) Get(rc world.Vec3i) (*Region, bool) {
	r, ok := m.regions[rc]
	return r, ok
}

// All returns the loaded regions. The slice is rebuilt per call; order is
// unspecified.
func (m *Manager) All() []*Region {
	out := make([]*Region, 0, len(m.regions))
	for _, r := range m.regions {
		out = append(out, r)
	}
	return out
}

// Players returns every committed player across all regions.
func (m *Manager) Players() []*world.Entity {
	var out []*world.Entity
	for _, r := range m.regions {
		out = append(out, r.Registry().GetPlayers()...)
	}
	return out
}

// Population sums committed and live entity counts across regions.
func (m *Manager) Population() (committed, live int) {
	for _, r := range m.regions {
		c, l := r.Registry().Population()
		committed += c
		live += l
	}
	return committed, live
}
