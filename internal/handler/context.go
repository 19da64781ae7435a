package handler

import (
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/config"
	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/persist"
	"github.com/voxelgate/server/internal/region"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	AccountRepo *persist.AccountRepo
	PlayerRepo  *persist.PlayerRepo
	Config      *config.Config
	Log         *zap.Logger
	Regions     *region.Manager
	Online      *Online
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.C_OPCODE_LOGIN,
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleLogin(sess.(*net.Session), r, deps)
		},
	)

	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.C_OPCODE_MOVE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleMove(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_VIEWDIST, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleViewDistance(sess.(*net.Session), r, deps)
		},
	)

	anyStates := []packet.SessionState{packet.StateHandshake, packet.StateInWorld}

	reg.Register(packet.C_OPCODE_PING, anyStates,
		func(sess any, r *packet.Reader) {
			HandlePing(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_QUIT, anyStates,
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
}
