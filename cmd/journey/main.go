package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/core/event"
	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/handler"
	"github.com/journeygo/client/internal/logging"
	gonet "github.com/journeygo/client/internal/net"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/persist"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/scripting"
	"github.com/journeygo/client/internal/system"
	"github.com/journeygo/client/internal/telemetry"
	"github.com/journeygo/client/internal/world"
)

// statusEvery is how often the loop logs session throughput.
const statusEvery = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printSection(title string) {
	fmt.Printf("  \033[33m-- %s %s\033[0m\n", title, strings.Repeat("-", max(3, 44-len(title))))
}

func printStat(label string, count int) {
	num := humanize.Comma(int64(count))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat(".", max(3, 40-len(label)-len(num))), num)
}

func printOK(msg string) {
	fmt.Printf("  \033[32mok\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/client.toml"
	if p := os.Getenv("JOURNEY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  \033[36;1m%s\033[0m  v%d  -> %s\n\n", cfg.Client.Name, cfg.Client.Version, cfg.Network.ServerAddress)

	printSection("data")
	maps, err := data.LoadMapData(cfg.Data.MapDir)
	if err != nil {
		return fmt.Errorf("load map data: %w", err)
	}
	printStat("maps", maps.Count())
	var mobs *data.MobTable
	if cfg.Data.MobFile != "" {
		if mobs, err = data.LoadMobTable(cfg.Data.MobFile); err != nil {
			return fmt.Errorf("load mob data: %w", err)
		}
		printStat("mob templates", mobs.Count())
	}

	lua, err := scripting.NewEngine(cfg.Data.ScriptFile, log)
	if err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	defer lua.Close()
	var ctrl system.Controller
	if lua.HasController() {
		ctrl = lua
		printOK("lua controller " + cfg.Data.ScriptFile)
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		db         *persist.DB
		snapshots  *persist.SnapshotRepo
		anomalyLog *persist.AnomalyLogRepo
	)
	if cfg.Database.Enabled {
		printSection("database")
		db, err = persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("schema version", int(version))
		snapshots = persist.NewSnapshotRepo(db)
		if cfg.Database.AnomalyLog {
			anomalyLog = persist.NewAnomalyLogRepo(db)
			if cfg.Database.AnomalyRetention > 0 {
				n, err := anomalyLog.PruneBefore(ctx, time.Now().Add(-cfg.Database.AnomalyRetention))
				if err != nil {
					return fmt.Errorf("prune anomaly log: %w", err)
				}
				printStat("anomalies pruned", int(n))
			}
		}
		printOK("postgres ready")
		fmt.Println()
	}

	enc, err := packet.LookupCodePage(cfg.Client.Codepage)
	if err != nil {
		return err
	}
	guard := physics.NewGuard(cfg.Physics.OscillationDelta, cfg.Physics.OscillationStrikes, cfg.Physics.OscillationMidLimit)
	bus := event.NewBus()
	stage := world.NewStage(maps, guard, bus, log)
	stage.SetMobTable(mobs)
	deps := handler.NewDeps(cfg, stage, bus, log)
	reg := packet.NewRegistry(enc, log)
	handler.RegisterAll(reg, deps)

	sess, err := gonet.Dial(ctx, cfg.Network, cfg.Client.Version, log)
	if err != nil {
		return err
	}
	defer sess.Close()
	handler.SendLogin(sess, cfg.Client.CharacterID)
	sess.FlushOutput()

	runner := coresys.NewRunner()
	input := system.NewInputSystem(sess.InQueue, sess, reg, cfg.Network.MaxPacketsPerTick, log)
	phys := system.NewPhysicsSystem(stage, ctrl, bus, cfg.Physics.AnomalyLogPerSecond, log)
	runner.Register(input)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(phys)
	runner.Register(system.NewOutputSystem(sess))
	runner.Register(system.NewCleanupSystem(stage))

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	if cfg.Telemetry.Enabled {
		hub := telemetry.NewHub(cfg.Network.WriteTimeout, log)
		runner.Register(system.NewTelemetrySystem(stage, phys, hub, cfg.Telemetry.EveryNTicks, cfg.Telemetry.ViewRange, log))
		go func() {
			if err := telemetry.Serve(loopCtx, cfg.Telemetry.BindAddress, hub); err != nil {
				log.Error("telemetry server stopped", zap.Error(err))
			}
		}()
		printOK("telemetry on ws://" + cfg.Telemetry.BindAddress + "/telemetry")
	}

	var persistence *system.PersistenceSystem
	if snapshots != nil {
		persistence = system.NewPersistenceSystem(deps.Character, snapshots, bus, 5*time.Second, log)
		if anomalyLog != nil {
			persistence.LogAnomalies(anomalyLog, cfg.Database.AnomalyFlushTicks)
		}
		runner.Register(persistence)
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Client.TickRate)
	defer ticker.Stop()
	status := time.NewTicker(statusEvery)
	defer status.Stop()
	started := time.Now()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Client.TickRate)

		case <-status.C:
			msgs, bytes := sess.Stats()
			dispatched, failed := input.Counts()
			log.Info("status",
				zap.String("uptime", durafmt.Parse(time.Since(started).Round(time.Second)).String()),
				zap.String("received", humanize.Bytes(bytes)),
				zap.Uint64("messages", msgs),
				zap.Uint64("dispatched", dispatched),
				zap.Uint64("failed", failed),
				zap.Uint64("ticks", runner.Ticks()),
				zap.Uint64("anomalies", phys.TotalAnomalies()),
				zap.Int32("map", stage.MapID()),
			)
			if db != nil {
				total, idle := db.Conns()
				log.Debug("database pool", zap.Int32("conns", total), zap.Int32("idle", idle))
			}

		case <-sess.Done():
			log.Info("disconnected by server", zap.Uint64("ticks", runner.Ticks()))
			if persistence != nil {
				persistence.SaveNow()
				persistence.FlushAnomalies()
			}
			return nil

		case sig := <-shutdownCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			if persistence != nil {
				persistence.SaveNow()
				persistence.FlushAnomalies()
			}
			return nil
		}
	}
}
