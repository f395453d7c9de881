package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/simcore/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a TOML run configuration. Built-in defaults apply when empty.")
	scenarioPath := flag.String("scenario", "", "Path to a YAML spawn scenario. Random population when empty.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "Override the configured initial entity count.")
	profileMode := flag.String("profile", "", `Write a pprof profile to the working directory: "cpu" or "mem".`)
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *entityCount > 0 {
		cfg.Population.Entities = *entityCount
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	seed := cfg.Population.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info("starting stress run",
		zap.Int64("seed", seed),
		zap.Float64("fixed_step", cfg.Loop.FixedStep),
		zap.Duration("duration", *duration))

	registry := ecs.NewComponentRegistry()
	registerStressComponents(registry)

	manager := ecs.NewEntityManager(log)
	defer manager.Destroy()

	renderProbe := NewRenderProbeSystem()
	manager.AddSystem(NewMovementSystem())
	manager.AddSystem(NewSpinSystem())
	manager.AddSystem(NewRegenSystem())
	manager.AddSystem(NewDamageSystem(rng))
	manager.AddSystem(NewDecaySystem())
	manager.AddRenderSystem(renderProbe)

	churn := subscribeChurn(manager, rng, log)

	var spawned int
	if *scenarioPath != "" {
		specs, err := LoadScenario(*scenarioPath)
		if err != nil {
			return err
		}
		spawned, err = spawnScenario(manager, specs, rng)
		if err != nil {
			return err
		}
		log.Info("scenario population complete",
			zap.String("scenario", *scenarioPath),
			zap.Int("blocks", len(specs)),
			zap.Int("entities", spawned))
	} else {
		for i := 0; i < cfg.Population.Entities; i++ {
			if err := spawnRandomEntity(manager, rng); err != nil {
				return fmt.Errorf("populate: %w", err)
			}
		}
		spawned = cfg.Population.Entities
		log.Info("random population complete", zap.Int("entities", spawned))
	}

	stats := manager.CollectStats()
	report := &Report{
		Duration:       *duration,
		FixedStep:      cfg.Loop.FixedStep,
		Entities:       spawned,
		ComponentKinds: registry.Len(),
		Systems:        stats.LogicSystemCount + stats.RenderSystemCount,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	update := func(dt float64) {
		start := time.Now()
		manager.UpdateLogic(dt)
		report.StepTime.Samples = append(report.StepTime.Samples, time.Since(start))
	}
	loop := ecs.NewGameLoop(update, manager.UpdateRendering)
	loop.SetFixedStep(cfg.Loop.FixedStep)
	loop.SetMaxCatchUp(cfg.Loop.MaxCatchUp)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	startTime := time.Now()
	loop.Run(ctx, cfg.Loop.TickRate)
	report.TotalTime = time.Since(startTime)

	loopStats := loop.GetStats()
	report.TotalTicks = loopStats.Ticks
	report.TotalSteps = loopStats.Steps
	report.DroppedSteps = loopStats.DroppedSteps
	report.UpdateTime = loopStats.UpdateTime
	report.RenderTime = loopStats.RenderTime
	report.FinalEntities = manager.EntityCount()
	report.Deaths = churn.deaths
	report.Expiries = churn.expiries
	report.StepTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	snapshot, err := manager.Serialize()
	if err != nil {
		return fmt.Errorf("snapshot population: %w", err)
	}
	report.SnapshotBytes = len(snapshot)

	restoreStart := time.Now()
	restored := ecs.NewEntityManager(log)
	if err := restored.Deserialize(snapshot, registry); err != nil {
		return fmt.Errorf("restore population: %w", err)
	}
	report.RestoreTime = time.Since(restoreStart)
	restored.Destroy()

	log.Info("simulation finished",
		zap.Uint64("steps", loopStats.Steps),
		zap.Uint64("dropped_steps", loopStats.DroppedSteps),
		zap.Int("final_entities", report.FinalEntities),
		zap.Float64("render_checksum", renderProbe.Checksum()))

	fmt.Println("\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// churnTracker counts the population turnover caused by damage deaths and
// lifetime expiries. Every loss is replaced so throughput stays comparable
// across the run.
type churnTracker struct {
	deaths   int
	expiries int
}

func subscribeChurn(m *ecs.EntityManager, rng *rand.Rand, log *zap.Logger) *churnTracker {
	t := &churnTracker{}

	ecs.Subscribe(m.Events(), func(ev damageEvent) {
		e, ok := m.GetEntity(ev.Entity)
		if !ok {
			return
		}
		h, ok := ecs.Get[*Health](e, HealthType)
		if !ok {
			return
		}
		h.Current -= ev.Amount
		if h.Current <= 0 {
			m.QueueDestroy(ev.Entity)
			t.deaths++
			if err := spawnRandomEntity(m, rng); err != nil {
				log.Warn("respawn after death failed", zap.Error(err))
			}
		}
	})

	ecs.Subscribe(m.Events(), func(ev entityExpired) {
		t.expiries++
		if err := spawnRandomEntity(m, rng); err != nil {
			log.Warn("respawn after expiry failed", zap.Error(err))
		}
	})

	return t
}

func newLogger(cfg LoggingConfig) (*zap.Logger, error) {
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
