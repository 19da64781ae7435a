package system

import (
	"time"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/handler"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/web"
)

// StatsSystem publishes one status snapshot per tick to the web feed hub.
// Phase 4 (Persist), registered after PersistenceSystem; runs after the
// visibility pass so the per-tick sync counters are final.
type StatsSystem struct {
	regions  *region.Manager
	online   *handler.Online
	hub      *web.Hub
	tick     uint64
	lastTick time.Time
}

func NewStatsSystem(regions *region.Manager, online *handler.Online, hub *web.Hub) *StatsSystem {
	return &StatsSystem{regions: regions, online: online, hub: hub}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *StatsSystem) Update(_ time.Duration) {
	s.tick++
	now := time.Now()
	var elapsed time.Duration
	if !s.lastTick.IsZero() {
		elapsed = now.Sub(s.lastTick)
	}
	s.lastTick = now

	committed, live := s.regions.Population()
	st := web.Status{
		Tick:       s.tick,
		Online:     s.online.Count(),
		Players:    len(s.regions.Players()),
		Regions:    len(s.regions.All()),
		Committed:  committed,
		Live:       live,
		TickMillis: elapsed.Milliseconds(),
	}
	for _, p := range s.online.All() {
		sync := p.Sync.Stats()
		st.Spawns += sync.Spawns
		st.Destroys += sync.Destroys
		st.Updates += sync.Updates
	}
	s.hub.Publish(st)
}
