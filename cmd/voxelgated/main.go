package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/voxelgate/server/internal/config"
	coresys "github.com/voxelgate/server/internal/core/system"
	"github.com/voxelgate/server/internal/data"
	"github.com/voxelgate/server/internal/handler"
	gonet "github.com/voxelgate/server/internal/net"
	"github.com/voxelgate/server/internal/net/packet"
	"github.com/voxelgate/server/internal/persist"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/scripting"
	"github.com/voxelgate/server/internal/system"
	"github.com/voxelgate/server/internal/web"
	"github.com/voxelgate/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("VOXELGATE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting server", zap.String("name", cfg.Server.Name))

	// 3. Connect to PostgreSQL and run migrations
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	accountRepo := persist.NewAccountRepo(db)
	playerRepo := persist.NewPlayerRepo(db)

	// 4. Load static data and scripts
	archetypes, err := data.LoadArchetypeTable(cfg.World.ArchetypeFile)
	if err != nil {
		return fmt.Errorf("load archetypes: %w", err)
	}
	spawns, err := data.LoadSpawnList(cfg.World.SpawnFile)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	log.Info("static data loaded",
		zap.Int("archetypes", archetypes.Count()),
		zap.Int("spawn_entries", len(spawns)),
	)

	luaEngine, err := scripting.NewEngine(cfg.World.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()

	// 5. Build the region map and populate it
	ids := world.NewIDSource()
	regions := region.NewManager(log, ids)
	system.PopulateWorld(regions, luaEngine, archetypes, spawns, log)

	// 6. Packet handlers
	online := handler.NewOnline()
	pktReg := packet.NewRegistry(log)
	deps := &handler.Deps{
		AccountRepo: accountRepo,
		PlayerRepo:  playerRepo,
		Config:      cfg,
		Log:         log,
		Regions:     regions,
		Online:      online,
	}
	handler.RegisterAll(pktReg, deps)

	// 7. Network server
	netServer, err := gonet.NewServer(cfg.Network, cfg.Server.Name, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	// 8. Status feed
	hub := web.NewHub()
	if cfg.Web.Enabled {
		webSrv := web.NewServer(cfg.Web.BindAddress, hub, log)
		webSrv.Start()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutCancel()
			_ = webSrv.Shutdown(shutCtx)
		}()
	}

	// 9. Systems
	saveTicks := int(cfg.World.SaveInterval / cfg.World.TickRate)
	if saveTicks < 1 {
		saveTicks = 1
	}
	store := gonet.NewSessionStore()
	persistSys := system.NewPersistenceSystem(online, playerRepo, log, saveTicks)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(netServer, pktReg, store, cfg.Network.MaxPacketsPerTick, deps, playerRepo, log))
	runner.Register(system.NewScriptSystem(regions, log))
	runner.Register(system.NewVisibilitySystem(regions))
	runner.Register(system.NewOutputSystem(store))
	runner.Register(persistSys)
	runner.Register(system.NewStatsSystem(regions, online, hub))
	runner.Register(system.NewCommitSystem(regions))

	// 10. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()
	// Poll input between full ticks so packet handling latency stays well
	// under one tick interval.
	pollTicker := time.NewTicker(cfg.World.TickRate / 4)
	defer pollTicker.Stop()

	log.Info("game loop started",
		zap.String("addr", netServer.Addr().String()),
		zap.Duration("tick", cfg.World.TickRate),
	)

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.World.TickRate)
		case <-pollTicker.C:
			runner.TickPhase(coresys.PhaseInput, 0)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			persistSys.SaveAllPlayers()
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
