package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/scripting"
	"github.com/voxelgate/server/internal/world"
)

// ScriptSystem drives every Lua-controlled entity once per tick and drains
// last tick's death queue. Phase 1 (Update).
type ScriptSystem struct {
	regions *region.Manager
	log     *zap.Logger
}

func NewScriptSystem(regions *region.Manager, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{regions: regions, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(_ time.Duration) {
	for _, r := range s.regions.All() {
		for _, e := range r.Registry().GetAllLive() {
			if c, ok := e.Controller().(*scripting.Controller); ok {
				c.Tick()
			}
		}

		for _, d := range r.Registry().Deaths().Drain() {
			if d.Entity.IsPlayer() {
				continue
			}
			s.log.Debug("entity died",
				zap.Int32("id", int32(d.Entity.ID())),
				zap.String("category", d.Entity.Category().String()),
			)
		}
		for _, ev := range r.Registry().Evictions().Drain() {
			s.logEviction(ev)
		}
	}
}

func (s *ScriptSystem) logEviction(ev world.Eviction) {
	s.log.Debug("block entity displaced",
		zap.Int32("x", ev.Pos.X),
		zap.Int32("y", ev.Pos.Y),
		zap.Int32("z", ev.Pos.Z),
	)
}
