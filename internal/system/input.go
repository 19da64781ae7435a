package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/handler"
	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/persist"
)

// InputSystem drains packet queues from all sessions and dispatches them
// through the packet registry. Phase 0 (Input).
type InputSystem struct {
	netServer  *net.Server
	registry   *packet.Registry
	store      *net.SessionStore
	maxPerTick int
	deps       *handler.Deps
	playerRepo *persist.PlayerRepo
	log        *zap.Logger
}

func NewInputSystem(
	netServer *net.Server,
	registry *packet.Registry,
	store *net.SessionStore,
	maxPerTick int,
	deps *handler.Deps,
	playerRepo *persist.PlayerRepo,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		netServer:  netServer,
		registry:   registry,
		store:      store,
		maxPerTick: maxPerTick,
		deps:       deps,
		playerRepo: playerRepo,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Accept new sessions
	for {
		select {
		case sess := <-s.netServer.NewSessions():
			s.store.Add(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	for id, sess := range s.store.Raw() {
		if sess.IsClosed() {
			// Drain any remaining packets before cleanup (a client may send
			// a final view-distance or quit packet just before the socket
			// drops). The last known state keeps handlers working.
			for i := 0; i < s.maxPerTick; i++ {
				select {
				case data := <-sess.InQueue:
					if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
						s.log.Debug("packet dispatch error during disconnect",
							zap.Uint64("session", sess.ID),
							zap.Error(err),
						)
					}
				default:
					goto doneClosing
				}
			}
		doneClosing:
			sess.FlushOutput()
			s.handleDisconnect(sess)
			s.store.Remove(id)
			continue
		}

		for i := 0; i < s.maxPerTick; i++ {
			select {
			case data := <-sess.InQueue:
				if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
					s.log.Debug("packet dispatch error",
						zap.Uint64("session", sess.ID),
						zap.Error(err),
					)
				}
			default:
				goto nextSession
			}
		}
	nextSession:
	}

	// Early flush so packets produced by input handlers (login results,
	// pongs) enter the OutQueue while the later phases run. The output
	// phase flushes whatever the visibility pass adds on top.
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}

// handleDisconnect tears a player out of the world when its session closes:
// saves the row, kills the entity and drops every chunk observation. The
// death cascades through the registry on the next finalize pass.
func (s *InputSystem) handleDisconnect(sess *net.Session) {
	p := s.deps.Online.Remove(sess.ID)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	pos := p.Entity.Position()
	row := &persist.PlayerRow{
		Name:         sess.PlayerName,
		Account:      sess.AccountName,
		X:            pos.X,
		Y:            pos.Y,
		Z:            pos.Z,
		ViewDistance: p.Entity.ViewDistance(),
		LastSeen:     &now,
	}
	if err := s.playerRepo.Save(ctx, row); err != nil {
		s.log.Error("save on disconnect failed", zap.String("player", sess.PlayerName), zap.Error(err))
	}

	p.Region.DropObserver(p.Entity)
	p.Entity.SetOnline(false)
	p.Entity.Kill()

	s.log.Info("player left world",
		zap.Uint64("session", sess.ID),
		zap.String("player", sess.PlayerName),
		zap.Int("online", s.deps.Online.Count()),
	)
}
