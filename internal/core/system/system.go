package system

import "time"

// Phase defines execution ordering within a single tick. Snapshot isolation
// depends on it: every live mutation happens before PhaseCommit, and
// PhaseCommit is the only place snapshots are copied.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain session packet queues
	PhaseUpdate                  // 1: simulation (scripts, movement)
	PhasePostUpdate              // 2: finalize dead entities + visibility sync
	PhaseOutput                  // 3: flush session send buffers
	PhasePersist                 // 4: batch save dirty players
	PhaseCommit                  // 5: copy all snapshots
)

// System is one unit of per-tick work, pinned to a phase.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
