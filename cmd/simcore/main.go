package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/profile"
	"github.com/simcore/server/internal/config"
	"github.com/simcore/server/internal/core/event"
	coresys "github.com/simcore/server/internal/core/system"
	"github.com/simcore/server/internal/data"
	"github.com/simcore/server/internal/engine"
	"github.com/simcore/server/internal/persist"
	"github.com/simcore/server/internal/physics"
	"github.com/simcore/server/internal/scripting"
	"github.com/simcore/server/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(engineName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            simcore  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     rigid-body entity graph manager       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mengine:\033[0m %s\n\n", engineName)
}

func printSection(title string) {
	lineLen := 46 - runewidth.StringWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - runewidth.StringWidth(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/simcore.toml"
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
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

	switch os.Getenv("SIMCORE_PROFILE") {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	printBanner(cfg.Engine.Name)

	// 3. Removal journal (optional)
	bus := event.NewBus()
	runner := coresys.NewRunner()

	if cfg.Journal.Driver != "" {
		printSection("journal")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.Open(ctx, cfg.Journal, log)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer db.Close()
		printOK(fmt.Sprintf("%s connected", db.Driver()))

		if err := persist.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()

		journal := system.NewJournalSystem(bus, persist.NewJournalRepo(db), log)
		defer journal.Flush()
		runner.Register(journal)
	}

	// 4. Engine and scene
	printSection("scene")
	eng := engine.New(cfg.Engine.Name, physicsSettings(cfg), bus, log)

	scene, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	worlds, err := eng.Build(scene)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	printStat("worlds", len(worlds))
	printStat("models", scene.Count())
	printStat("links", eng.Store().Links().Len())
	printStat("collisions", eng.Store().Collisions().Len())
	printStat("joints", eng.Store().Joints().Len())
	fmt.Println()

	// 5. Systems
	removals := system.NewRemovalSystem(eng, log)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewStepSystem(eng, cfg.Loop.Step))
	runner.Register(system.NewContactSystem(bus, eng, log))
	runner.Register(removals)

	if cfg.Scripting.Enabled {
		scripts, err := scripting.NewEngine(cfg.Scripting.Dir, system.ScriptHost{Engine: eng, Removals: removals}, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer scripts.Close()
		runner.Register(system.NewScriptSystem(scripts))
		printOK("lua scripts loaded")
	}

	// 6. Loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("tick %s, step %s", cfg.Loop.TickRate, cfg.Loop.Step))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			if cfg.Loop.MaxTicks > 0 && runner.Ticks() >= cfg.Loop.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.Ticks()))
				// deliver the last removals to the journal before exiting
				runner.TickPhase(coresys.PhasePreUpdate, cfg.Loop.TickRate)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			runner.TickPhase(coresys.PhasePreUpdate, cfg.Loop.TickRate)
			return nil
		}
	}
}

func physicsSettings(cfg *config.Config) physics.Settings {
	return physics.Settings{
		Gravity:    cp.Vector{X: cfg.World.GravityX, Y: cfg.World.GravityY},
		Friction:   cfg.Collision.Friction,
		Elasticity: cfg.Collision.Elasticity,
		Broadphase: cfg.Broadphase.Kind,
		CellSize:   cfg.Broadphase.CellSize,
		CellCount:  cfg.Broadphase.CellCount,
		Iterations: cfg.Solver.Iterations,
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
