package system

import (
	"time"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/net"
)

// OutputSystem flushes every session's per-tick output buffer into its
// OutQueue. Phase 3 (Output). The write goroutines take it from there.
type OutputSystem struct {
	store *net.SessionStore
}

func NewOutputSystem(store *net.SessionStore) *OutputSystem {
	return &OutputSystem{store: store}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}
