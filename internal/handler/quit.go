package handler

import (
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
)

// HandleQuit processes C_QUIT. Just close the session; the input system's
// disconnect path does all the cleanup.
func HandleQuit(sess *net.Session, _ *packet.Reader, deps *Deps) {
	deps.Log.Info("player quit", zap.Uint64("session", sess.ID), zap.String("account", sess.AccountName))
	sess.Close()
}

// HandlePing echoes the client nonce.
func HandlePing(sess *net.Session, r *packet.Reader, _ *Deps) {
	nonce := r.ReadD()
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_PONG)
	w.WriteD(nonce)
	sess.Send(w.Bytes())
}
