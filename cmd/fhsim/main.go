// fhsim steps the player on one map's terrain without a server, optionally
// steered by the Lua controller, and prints its trajectory.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/journeygo/client/internal/config"
	coresys "github.com/journeygo/client/internal/core/system"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/logging"
	"github.com/journeygo/client/internal/physics"
	"github.com/journeygo/client/internal/scripting"
	"github.com/journeygo/client/internal/system"
	"github.com/journeygo/client/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("fhsim", flag.ExitOnError)
	cfgPath := fs.String("config", "config/client.toml", "client config file")
	mapID := fs.Int("map", 100000000, "map id")
	portal := fs.Uint("portal", 0, "spawn portal id")
	ticks := fs.Int("ticks", 500, "ticks to simulate")
	every := fs.Int("every", 25, "print the player every n ticks")
	script := fs.String("script", "", "Lua controller (default data.script_file)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *script != "" {
		cfg.Data.ScriptFile = *script
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	maps, err := data.LoadMapData(cfg.Data.MapDir)
	if err != nil {
		return fmt.Errorf("load map data: %w", err)
	}
	lua, err := scripting.NewEngine(cfg.Data.ScriptFile, log)
	if err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	defer lua.Close()
	var ctrl system.Controller
	if lua.HasController() {
		ctrl = lua
	}

	guard := physics.NewGuard(cfg.Physics.OscillationDelta, cfg.Physics.OscillationStrikes, cfg.Physics.OscillationMidLimit)
	stage := world.NewStage(maps, guard, nil, log)
	stage.SetPlayer(1, "fhsim")
	start := stage.Load(int32(*mapID), uint8(*portal))
	fmt.Printf("map %d portal %d: %d footholds, spawn (%.1f, %.1f)\n",
		*mapID, *portal, stage.Engine().Tree().Len(), start.X, start.Y)

	phys := system.NewPhysicsSystem(stage, ctrl, nil, cfg.Physics.AnomalyLogPerSecond, log)
	runner := coresys.NewRunner()
	runner.Register(phys)
	runner.Register(system.NewCleanupSystem(stage))

	p := stage.Player()
	for i := 1; i <= *ticks; i++ {
		runner.Tick(cfg.Client.TickRate)
		for _, a := range phys.LastAnomalies() {
			fmt.Printf("%6d  anomaly %s %s at (%.1f, %.1f)\n", i, a.Kind, a.Flags, a.X, a.Y)
		}
		if *every > 0 && i%*every == 0 {
			fmt.Printf("%6d  x=%8.2f y=%8.2f hs=%6.2f vs=%6.2f fh=%d ground=%t\n",
				i, p.Phys.X, p.Phys.Y, p.Phys.HSpeed, p.Phys.VSpeed, p.Phys.FhID, p.Phys.OnGround)
		}
	}
	fmt.Printf("done: %d ticks, %d anomalies\n", phys.Tick(), phys.TotalAnomalies())
	return nil
}
