package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/persist"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/world"
)

const loginFailed int32 = -1

// HandleLogin processes C_LOGIN: authenticate (auto-creating unknown
// accounts), restore or create the player, and spawn it into its region.
func HandleLogin(sess *net.Session, r *packet.Reader, deps *Deps) {
	name := r.ReadS()
	password := r.ReadS()
	if name == "" || password == "" {
		sendLoginResult(sess, false, loginFailed, world.Vec3{})
		return
	}
	if deps.Online.GetByName(name) != nil {
		deps.Log.Warn("login rejected, already online", zap.String("player", name))
		sendLoginResult(sess, false, loginFailed, world.Vec3{})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	account, err := deps.AccountRepo.Load(ctx, name)
	if err != nil {
		deps.Log.Error("account load failed", zap.String("account", name), zap.Error(err))
		sendLoginResult(sess, false, loginFailed, world.Vec3{})
		return
	}
	if account == nil {
		if account, err = deps.AccountRepo.Create(ctx, name, password); err != nil {
			deps.Log.Error("account create failed", zap.String("account", name), zap.Error(err))
			sendLoginResult(sess, false, loginFailed, world.Vec3{})
			return
		}
		deps.Log.Info("account created", zap.String("account", name))
	} else {
		if account.Banned || !deps.AccountRepo.ValidatePassword(account.PasswordHash, password) {
			deps.Log.Warn("login rejected", zap.String("account", name), zap.Bool("banned", account.Banned))
			sendLoginResult(sess, false, loginFailed, world.Vec3{})
			return
		}
		if err := deps.AccountRepo.TouchLogin(ctx, name); err != nil {
			deps.Log.Warn("touch login failed", zap.String("account", name), zap.Error(err))
		}
	}

	row, err := deps.PlayerRepo.Load(ctx, name)
	if err != nil {
		deps.Log.Error("player load failed", zap.String("player", name), zap.Error(err))
		sendLoginResult(sess, false, loginFailed, world.Vec3{})
		return
	}
	wcfg := deps.Config.World
	if row == nil {
		row = &persist.PlayerRow{
			Name:         name,
			Account:      account.Name,
			X:            wcfg.SpawnX,
			Y:            wcfg.SpawnY,
			Z:            wcfg.SpawnZ,
			ViewDistance: wcfg.DefaultViewDist,
		}
	}

	pos := world.Vec3{X: row.X, Y: row.Y, Z: row.Z}
	ctrl := world.NewPlayerController(row.Name, row.Account)
	e := world.NewEntity(ctrl, pos, clampView(row.ViewDistance, wcfg.MaxViewDist))
	sync := net.NewEntitySync(sess)
	e.SetSynchronizer(sync)
	e.SetOnline(true)

	reg := deps.Regions.RegionAt(pos.Floor())
	reg.LoadChunk(region.ChunkCoord(pos.Floor()))
	reg.Spawn(e)

	sess.AccountName = account.Name
	sess.PlayerName = row.Name
	sess.SetState(packet.StateInWorld)
	p := &OnlinePlayer{Session: sess, Sync: sync, Entity: e, Region: reg}
	deps.Online.Add(p)
	RefreshObservation(deps, p)

	deps.Log.Info("player entered world",
		zap.String("player", row.Name),
		zap.Int32("id", int32(e.ID())),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y), zap.Float64("z", pos.Z))

	sendLoginResult(sess, true, int32(e.ID()), pos)
}

func sendLoginResult(sess *net.Session, ok bool, id int32, pos world.Vec3) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_LOGINRESULT)
	if ok {
		w.WriteC(1)
	} else {
		w.WriteC(0)
	}
	w.WriteD(id)
	w.WriteF(pos.X)
	w.WriteF(pos.Y)
	w.WriteF(pos.Z)
	sess.Send(w.Bytes())
}

func clampView(v, max int) int {
	if v < 1 {
		return 1
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
