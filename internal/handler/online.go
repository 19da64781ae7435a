package handler

import (
	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/world"
)

// OnlinePlayer ties one session to its in-world entity and home region.
type OnlinePlayer struct {
	Session *net.Session
	Sync    *net.EntitySync
	Entity  *world.Entity
	Region  *region.Region
}

// Online is the table of players currently in world, keyed by session id.
// Game loop goroutine only.
type Online struct {
	bySession map[uint64]*OnlinePlayer
	byName    map[string]*OnlinePlayer
}

func NewOnline() *Online {
	return &Online{
		bySession: make(map[uint64]*OnlinePlayer),
		byName:    make(map[string]*OnlinePlayer),
	}
}

func (o *Online) Add(p *OnlinePlayer) {
	o.bySession[p.Session.ID] = p
	o.byName[p.Session.PlayerName] = p
}

func (o *Online) Remove(sessionID uint64) *OnlinePlayer {
	p, ok := o.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(o.bySession, sessionID)
	delete(o.byName, p.Session.PlayerName)
	return p
}

func (o *Online) Get(sessionID uint64) *OnlinePlayer {
	return o.bySession[sessionID]
}

func (o *Online) GetByName(name string) *OnlinePlayer {
	return o.byName[name]
}

func (o *Online) Count() int {
	return len(o.bySession)
}

// All returns the online players. Order is unspecified.
func (o *Online) All() []*OnlinePlayer {
	out := make([]*OnlinePlayer, 0, len(o.bySession))
	for _, p := range o.bySession {
		out = append(out, p)
	}
	return out
}
