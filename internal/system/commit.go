package system

import (
	"time"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/region"
)

// CommitSystem runs the single commit point of the tick. Phase 5 (Commit):
// players observe the live view one last time, then every region's
// double-buffered state flips live into snapshot. Nothing after this phase
// may mutate live state this tick.
type CommitSystem struct {
	regions *region.Manager
}

func NewCommitSystem(regions *region.Manager) *CommitSystem {
	return &CommitSystem{regions: regions}
}

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCommit }

func (s *CommitSystem) Update(_ time.Duration) {
	for _, r := range s.regions.All() {
		r.Registry().PreSnapshotRun()
		r.CopyAllSnapshots()
	}
}
