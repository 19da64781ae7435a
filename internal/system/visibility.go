package system

import (
	"time"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/region"
)

// VisibilitySystem runs the per-region visibility pass. Phase 2
// (PostUpdate): finalize tears down dead entities and rebinds movers to
// their chunks, then SyncEntities diffs the committed view against the live
// one and queues spawn/destroy/update packets on each observer.
type VisibilitySystem struct {
	regions *region.Manager
}

func NewVisibilitySystem(regions *region.Manager) *VisibilitySystem {
	return &VisibilitySystem{regions: regions}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *VisibilitySystem) Update(_ time.Duration) {
	for _, r := range s.regions.All() {
		reg := r.Registry()
		reg.FinalizeRun()
		reg.SyncEntities()
	}
}
