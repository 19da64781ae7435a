package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/handler"
	"github.com/voxelgate/server/internal/persist"
)

// PersistenceSystem periodically saves every online player's position and
// view distance in one batch. Phase 4 (Persist).
type PersistenceSystem struct {
	online    *handler.Online
	players   *persist.PlayerRepo
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
}

func NewPersistenceSystem(online *handler.Online, players *persist.PlayerRepo, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		online:   online,
		players:  players,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveAllPlayers()
}

// SaveAllPlayers persists all online players immediately. Also called on
// graceful shutdown so nothing is lost.
func (s *PersistenceSystem) SaveAllPlayers() {
	rows := s.collectRows()
	if len(rows) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.players.SaveBatch(ctx, rows); err != nil {
		s.log.Error("player auto-save failed", zap.Int("players", len(rows)), zap.Error(err))
		return
	}
	s.log.Info("player auto-save complete", zap.Int("players", len(rows)))
}

func (s *PersistenceSystem) collectRows() []*persist.PlayerRow {
	now := time.Now()
	all := s.online.All()
	rows := make([]*persist.PlayerRow, 0, len(all))
	for _, p := range all {
		pos := p.Entity.Position()
		rows = append(rows, &persist.PlayerRow{
			Name:         p.Session.PlayerName,
			Account:      p.Session.AccountName,
			X:            pos.X,
			Y:            pos.Y,
			Z:            pos.Z,
			ViewDistance: p.Entity.ViewDistance(),
			LastSeen:     &now,
		})
	}
	return rows
}
