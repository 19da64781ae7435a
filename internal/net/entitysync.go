package net

import (
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/world"
)

// SyncStats counts the visibility messages sent to one session in the
// current tick.
type SyncStats struct {
	Spawns   int
	Destroys int
	Updates  int
}

// EntitySync translates visibility obligations into buffered packets on one
// session. It implements world.Synchronizer; the registry drives it during
// the visibility pass, the output phase flushes the session.
type EntitySync struct {
	sess  *Session
	stats SyncStats
}

func NewEntitySync(sess *Session) *EntitySync {
	return &EntitySync{sess: sess}
}

func (n *EntitySync) SpawnEntity(e *world.Entity) {
	pos := e.Position()
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_SPAWN)
	w.WriteD(int32(e.ID()))
	w.WriteC(byte(e.Category()))
	w.WriteF(pos.X)
	w.WriteF(pos.Y)
	w.WriteF(pos.Z)
	n.sess.Send(w.Bytes())
	n.stats.Spawns++
}

func (n *EntitySync) DestroyEntity(e *world.Entity) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_DESPAWN)
	w.WriteD(int32(e.ID()))
	n.sess.Send(w.Bytes())
	n.stats.Destroys++
}

func (n *EntitySync) SyncEntity(e *world.Entity) {
	pos := e.Position()
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_UPDATE)
	w.WriteD(int32(e.ID()))
	w.WriteF(pos.X)
	w.WriteF(pos.Y)
	w.WriteF(pos.Z)
	n.sess.Send(w.Bytes())
	n.stats.Updates++
}

// FinalizeTick runs at the start of the tick boundary, before the
// visibility pass; it resets the per-tick counters.
func (n *EntitySync) FinalizeTick() {
	n.stats = SyncStats{}
}

// PreSnapshot runs after the visibility pass, just before commit.
func (n *EntitySync) PreSnapshot() {}

// Stats returns the counters accumulated since the last FinalizeTick.
func (n *EntitySync) Stats() SyncStats {
	return n.stats
}

// Session returns the underlying connection.
func (n *EntitySync) Session() *Session {
	return n.sess
}
