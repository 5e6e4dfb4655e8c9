package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thejerf/suture/v4"

	"github.com/Norgate-AV/overlayd/internal/config"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/input"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/scene"
	"github.com/Norgate-AV/overlayd/internal/service"
	"github.com/Norgate-AV/overlayd/internal/stats"
	"github.com/Norgate-AV/overlayd/internal/timeouts"
	"github.com/Norgate-AV/overlayd/internal/window"
)

// engine is one running overlay: the compositor, its input layer and the
// supervised background services around them.
type engine struct {
	log      logger.LoggerInterface
	cfg      *config.Config
	hub      *events.Hub
	input    *input.Manager
	synth    *input.Synthesizer
	windows  *window.Manager
	service  *service.Service
	stats    *stats.Calculator
	graphics *graphics.Manager
	scenes   *scene.Applier
	super    *suture.Supervisor
}

// newEngine wires the overlay around renderer and platform.
func newEngine(log logger.LoggerInterface, cfg *config.Config, renderer graphics.Renderer, platform interfaces.Platform) *engine {
	hub := events.NewHub(log, events.DefaultSubscriptionBuffer)
	in := input.NewManager(log, platform)

	wm := window.NewManager(window.Options{
		Input:    in,
		Events:   hub,
		Textures: renderer,
		Log:      log,
	})
	in.AttachRouter(wm)

	svc := service.New(log, wm, hub)
	calc := stats.NewCalculator(log, hub, cfg.StatsOptions())

	super := suture.New("overlayd", suture.Spec{
		EventHook: func(ev suture.Event) {
			log.Warn("Supervisor event", slog.String("event", ev.String()))
		},
		Timeout:        timeouts.ServiceStopTimeout,
		FailureBackoff: timeouts.ServiceFailureBackoff,
	})
	super.Add(calc)

	return &engine{
		log:      log,
		cfg:      cfg,
		hub:      hub,
		input:    in,
		synth:    input.NewSynthesizer(in),
		windows:  wm,
		service:  svc,
		stats:    calc,
		graphics: graphics.NewManager(log, renderer, wm, calc),
		scenes:   scene.NewApplier(log, svc, scene.DefaultClientID, cfg.Cursor()),
		super:    super,
	}
}

// loadScene reads and applies a scene file.
func (e *engine) loadScene(path string) (*scene.Applied, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}

	applied, err := e.scenes.Apply(s)
	if err != nil {
		return applied, fmt.Errorf("failed to apply scene: %w", err)
	}

	return applied, nil
}

// watchScene reloads path whenever it changes on disk.
func (e *engine) watchScene(path string) error {
	w, err := scene.NewWatcher(e.log, path, 0, func() {
		if _, err := e.loadScene(path); err != nil {
			e.log.Error("Scene reload failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}

	e.super.Add(w)

	return nil
}

// start runs the supervised services until ctx is done. The returned
// channel yields the supervisor's exit error.
func (e *engine) start(ctx context.Context) <-chan error {
	return e.super.ServeBackground(ctx)
}

// status is a one-line summary of the compositor state.
func (e *engine) status() string {
	name := func(id window.ID) string {
		if id.IsEmpty() {
			return "-"
		}

		return e.scenes.Current().Name(id.ID)
	}

	return fmt.Sprintf("blocking=%v focused=%s hovered=%s",
		e.input.BlockAppInput(),
		name(e.windows.FocusedWindowID()),
		name(e.windows.HoveredWindowID()),
	)
}
