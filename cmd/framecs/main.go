package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/framecs/runtime/internal/component"
	"github.com/framecs/runtime/internal/config"
	"github.com/framecs/runtime/internal/core/ecs"
	"github.com/framecs/runtime/internal/core/event"
	coresys "github.com/framecs/runtime/internal/core/system"
	"github.com/framecs/runtime/internal/data"
	"github.com/framecs/runtime/internal/render"
	"github.com/framecs/runtime/internal/scripting"
	"github.com/framecs/runtime/internal/system"
	"github.com/framecs/runtime/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/framecs.toml"
	if p := os.Getenv("FRAMECS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	labels, err := data.LoadLabels(cfg.Data.Labels)
	if err != nil {
		return fmt.Errorf("load labels: %w", err)
	}
	groups, layers := labels.Count()
	log.Info("labels loaded", zap.Int("groups", groups), zap.Int("layers", layers))

	reporter, err := telemetry.Dial(cfg.Telemetry.StatsdAddress, cfg.Telemetry.Namespace, cfg.Telemetry.Tags, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer reporter.Close()

	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	luaEngine.DefineConstants("groups", labels.GroupTable())
	luaEngine.DefineConstants("layers", labels.LayerTable())

	canvas, err := newCanvas(cfg.Render)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	defer canvas.Screen().Fini()

	mgr := ecs.NewManager(
		ecs.WithLogger(log),
		ecs.WithCapacity(cfg.Loop.EntityCapacity),
		ecs.WithSweepHook(reporter.Sweep),
	)
	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.SweepCompleted) {
		if ev.Stats.Destroyed > 0 {
			log.Debug("sweep", zap.Uint64("frame", ev.Frame), zap.Int("destroyed", ev.Stats.Destroyed), zap.Int("remaining", ev.Stats.Remaining))
		}
	})

	w, h := canvas.Size()
	game := newDemo(mgr, canvas, luaEngine, w, h, log)
	if err := game.setup(); err != nil {
		return fmt.Errorf("demo setup: %w", err)
	}
	layerRender, err := system.NewLayerRenderSystem(mgr, canvas, log, component.DrawOrder...)
	if err != nil {
		return fmt.Errorf("render system: %w", err)
	}

	runner := coresys.NewRunner(log)
	runner.Observe(reporter)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(game)
	runner.Register(system.NewUpdateSystem(mgr))
	runner.Register(layerRender)
	runner.Register(system.NewRefreshSystem(mgr, cfg.Loop.RefreshEvery, bus, log))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	quitCh := make(chan struct{})
	if !cfg.Render.Headless {
		go pollQuit(canvas.Screen(), quitCh)
	}

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	log.Info("frame loop started",
		zap.Duration("tick", cfg.Loop.TickRate),
		zap.Int("refresh_every", cfg.Loop.RefreshEvery),
		zap.Bool("headless", cfg.Render.Headless),
	)

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			runner.Tick(cfg.Loop.TickRate)
			event.Emit(bus, event.FrameCompleted{
				Frame:    runner.Frame(),
				Elapsed:  time.Since(start),
				Entities: mgr.Len(),
			})
			if cfg.Loop.MaxTicks > 0 && runner.Frame() >= cfg.Loop.MaxTicks {
				log.Info("max ticks reached", zap.Uint64("frames", runner.Frame()), zap.Int("entities", mgr.Len()))
				return nil
			}
		case <-quitCh:
			log.Info("quit requested")
			return nil
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newCanvas(cfg config.RenderConfig) (*render.Canvas, error) {
	if cfg.Headless {
		return render.NewSimulationCanvas(cfg.Width, cfg.Height)
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return render.NewCanvas(screen), nil
}

// pollQuit closes quit on Escape, q or Ctrl-C.
func pollQuit(screen tcell.Screen, quit chan<- struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q' {
				close(quit)
				return
			}
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
