package preview

import (
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/input"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// wheelDelta is the Win32 wheel delta of one notch.
const wheelDelta = 120

var mouseButtons = map[ebiten.MouseButton]events.MouseButton{
	ebiten.MouseButtonLeft:   events.Left,
	ebiten.MouseButtonMiddle: events.Middle,
	ebiten.MouseButtonRight:  events.Right,
	ebiten.MouseButton3:      events.X1,
	ebiten.MouseButton4:      events.X2,
}

// Driver polls ebiten's input state once per tick and replays it as window
// messages through a Synthesizer.
type Driver struct {
	log   logger.LoggerInterface
	synth *input.Synthesizer

	keys  []ebiten.Key
	chars []rune
}

// NewDriver creates a Driver feeding synth.
func NewDriver(log logger.LoggerInterface, synth *input.Synthesizer) *Driver {
	return &Driver{
		log:   log.With(slog.String("component", "preview-input")),
		synth: synth,
	}
}

// Update replays one tick of input. It must be called from Game.Update.
func (d *Driver) Update() {
	x, y := ebiten.CursorPosition()
	pt := geom.Point{X: int32(x), Y: int32(y)}

	d.synth.MouseMove(pt)

	if !d.synth.SetCursor() {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}

	for eb, button := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			d.synth.MouseButton(button, true, pt)
		}

		if inpututil.IsMouseButtonJustReleased(eb) {
			d.synth.MouseButton(button, false, pt)
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		if dy != 0 {
			d.synth.Wheel(true, notches(dy), pt)
		}

		if dx != 0 {
			d.synth.Wheel(false, notches(dx), pt)
		}
	}

	sys := ebiten.IsKeyPressed(ebiten.KeyAlt)

	d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		if vk, ok := virtualKeys[k]; ok {
			d.synth.Key(vk, true, sys)
		}
	}

	d.chars = ebiten.AppendInputChars(d.chars[:0])
	for _, r := range d.chars {
		d.synth.Char(r)
	}

	d.keys = inpututil.AppendJustReleasedKeys(d.keys[:0])
	for _, k := range d.keys {
		if vk, ok := virtualKeys[k]; ok {
			d.synth.Key(vk, false, sys)
		}
	}
}

// Resize reports the window's new client size.
func (d *Driver) Resize(width, height int) {
	d.log.Debug("Preview resized", slog.Int("width", width), slog.Int("height", height))
	d.synth.Resize(width, height)
}

func notches(v float64) int16 {
	delta := math.Round(v * wheelDelta)
	return int16(max(math.MinInt16, min(math.MaxInt16, delta)))
}
