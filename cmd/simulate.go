package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/input"
	"github.com/Norgate-AV/overlayd/internal/scene"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scene.yaml]",
	Short: "Compose a scene headlessly and report the result",
	Long: "Applies a scene to a headless renderer, presents a number of frames, " +
		"optionally clicks at the given points, and prints the composited order, " +
		"focus, block-input state and frame statistics.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntP("frames", "n", 0, "number of frames to present (default from config)")
	simulateCmd.Flags().StringArray("click", nil, "left-click at x,y after the scene is applied (repeatable)")
	RootCmd.AddCommand(simulateCmd)
}

// presentLoop presents frames at a fixed interval, standing in for the
// host's swap chain.
type presentLoop struct {
	graphics *graphics.Manager
	frames   int
	interval time.Duration
	done     chan struct{}
}

func (p *presentLoop) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for i := 0; i < p.frames; i++ {
		p.graphics.BeforePresent()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	close(p.done)

	return suture.ErrDoNotRestart
}

func (p *presentLoop) String() string {
	return "present-loop"
}

// parsePoint parses "x,y".
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("point %q must be x,y", s)
	}

	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 16)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: bad x: %w", s, err)
	}

	y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 16)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: bad y: %w", s, err)
	}

	return geom.Point{X: int32(x), Y: int32(y)}, nil
}

func runSimulate(cmd *cobra.Command, args []string) (err error) {
	rt, err := startup(cmd)
	if err != nil || rt == nil {
		return err
	}
	defer rt.close()
	defer rt.recoverPanic(&err)

	frames, _ := cmd.Flags().GetInt("frames")
	if frames <= 0 {
		frames = rt.cfg.Simulate.Frames
	}

	rawClicks, _ := cmd.Flags().GetStringArray("click")
	clicks := make([]geom.Point, 0, len(rawClicks))
	for _, raw := range rawClicks {
		pt, err := parsePoint(raw)
		if err != nil {
			return err
		}

		clicks = append(clicks, pt)
	}

	width, height := uint32(rt.cfg.Simulate.Width), uint32(rt.cfg.Simulate.Height)
	renderer := graphics.NewHeadlessRenderer(rt.log, width, height)
	eng := newEngine(rt.log, rt.cfg, renderer, input.NopPlatform{})
	eng.synth.Resize(int(width), int(height))

	if len(args) == 1 {
		if _, err := eng.loadScene(args[0]); err != nil {
			return err
		}
	}

	sub, cancelSub, err := eng.service.Subscribe(scene.DefaultClientID, events.KindWindow)
	if err != nil {
		return err
	}
	defer cancelSub()

	for _, pt := range clicks {
		rt.log.Debug("Simulated click", slog.Int("x", int(pt.X)), slog.Int("y", int(pt.Y)))
		eng.synth.MouseMove(pt)
		eng.synth.MouseButton(events.Left, true, pt)
		eng.synth.MouseButton(events.Left, false, pt)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt.onStop(cancel)

	loop := &presentLoop{
		graphics: eng.graphics,
		frames:   frames,
		interval: rt.cfg.FrameInterval(),
		done:     make(chan struct{}),
	}
	eng.super.Add(loop)
	supervisorDone := eng.start(ctx)

	select {
	case <-loop.done:
	case <-ctx.Done():
	}

	cancel()
	<-supervisorDone

	report(cmd.OutOrStdout(), eng, renderer, drain(sub))

	return nil
}

// drain collects the window events queued so far.
func drain(ch <-chan events.Event) []events.WindowEvent {
	var out []events.WindowEvent

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}

			if ev.Window != nil {
				out = append(out, *ev.Window)
			}
		default:
			return out
		}
	}
}

func report(w io.Writer, eng *engine, renderer *graphics.HeadlessRenderer, received []events.WindowEvent) {
	applied := eng.scenes.Current()

	fmt.Fprintln(w, "Composited (bottom to top):")
	for i, l := range eng.windows.Layers() {
		name := applied.Name(l.ID.ID)
		if l.Buffer {
			name = applied.Name(l.ID.GroupID) + " [buffer]"
		}

		fmt.Fprintf(w, "  %2d  %s\n", i, name)
	}

	fmt.Fprintln(w, eng.status())

	st := renderer.Stats()
	fmt.Fprintf(w, "frames=%d textures created=%d uploaded=%d released=%d live=%d\n",
		st.Frames, st.Created, st.Uploaded, st.Released, renderer.LiveTextures())

	if ev, ok := eng.stats.Compute(); ok {
		fmt.Fprintf(w, "frame time=%.2fms fps=%.1f\n", ev.FrameTime, ev.FPS)
	}

	if len(received) > 0 {
		fmt.Fprintln(w, "Window events:")
		for _, ev := range received {
			fmt.Fprintf(w, "  %s %s\n", applied.Name(ev.WindowID), ev.Payload)
		}
	}
}
