package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func newTestSynthesizer(block bool) (*Synthesizer, *stepClock, *Manager) {
	m, _, _ := newTestManager()
	m.SetBlockAppInput(block)

	clock := &stepClock{t: time.Unix(1700000000, 0)}

	return NewSynthesizer(m).WithClock(clock.now), clock, m
}

func TestMakeLParam_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, pt := range []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: -5, Y: 300}, {X: 32767, Y: -32768}} {
		assert.Equal(t, pt, pointFromLParam(MakeLParam(pt.X, pt.Y)))
	}

	assert.Equal(t, uintptr(0x00020001), MakeWParam(1, 2))
}

func TestSynthesizer_MouseMove(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestSynthesizer(true)

	assert.True(t, s.MouseMove(geom.Point{X: 5, Y: 6}))
	assert.False(t, s.MouseMove(geom.Point{X: 5, Y: 6}), "unchanged position is not resent")
	assert.True(t, s.MouseMove(geom.Point{X: 7, Y: 6}))
	assert.Equal(t, 2, s.Consumed())
}

func TestSynthesizer_NotBlockingPassesThrough(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestSynthesizer(false)

	assert.False(t, s.MouseMove(geom.Point{X: 1, Y: 1}))
	assert.False(t, s.MouseButton(events.Left, true, geom.Point{X: 1, Y: 1}))
	assert.False(t, s.Key(0x41, true, false))
	assert.False(t, s.Char('a'))
	assert.Zero(t, s.Consumed())
}

func TestSynthesizer_ButtonsAndDoubleClick(t *testing.T) {
	t.Parallel()

	m, _, router := newTestManager()
	m.SetBlockAppInput(true)

	clock := &stepClock{t: time.Unix(1700000000, 0)}
	s := NewSynthesizer(m).WithClock(clock.now)
	pt := geom.Point{X: 10, Y: 10}

	s.MouseButton(events.Left, true, pt)
	s.MouseButton(events.Left, false, pt)
	clock.t = clock.t.Add(100 * time.Millisecond)
	s.MouseButton(events.Left, true, geom.Point{X: 12, Y: 9})
	s.MouseButton(events.Left, false, pt)
	clock.t = clock.t.Add(100 * time.Millisecond)
	s.MouseButton(events.Left, true, pt)
	clock.t = clock.t.Add(time.Second)
	s.MouseButton(events.Left, true, pt)
	s.MouseButton(events.X2, true, geom.Point{X: 50, Y: 50})
	s.MouseButton(events.Right, false, pt)

	var got []events.MouseInputType
	var buttons []events.MouseButton
	for _, e := range router.MouseEvents {
		got = append(got, e.Event.Type)
		buttons = append(buttons, e.Event.Button)
	}

	assert.Equal(t, []events.MouseInputType{
		events.ButtonDown, events.ButtonUp,
		events.DoubleClick, events.ButtonUp,
		events.ButtonDown,
		events.ButtonDown,
		events.ButtonDown,
		events.ButtonUp,
	}, got)
	assert.Equal(t, events.X2, buttons[6])
	assert.Equal(t, events.Right, buttons[7])
	assert.False(t, s.MouseButton(events.NoButton, true, pt))
}

func TestSynthesizer_Wheel(t *testing.T) {
	t.Parallel()

	m, _, router := newTestManager()
	m.SetBlockAppInput(true)

	s := NewSynthesizer(m)
	assert.True(t, s.Wheel(true, -120, geom.Point{X: 3, Y: 4}))
	assert.True(t, s.Wheel(false, 240, geom.Point{X: 3, Y: 4}))

	require.Len(t, router.MouseEvents, 2)
	assert.Equal(t, events.VerticalWheel, router.MouseEvents[0].Event.Type)
	assert.Equal(t, int16(-120), router.MouseEvents[0].Event.WheelDelta)
	assert.Equal(t, geom.Point{X: 3, Y: 4}, router.MouseEvents[0].Point)
	assert.Equal(t, events.HorizontalWheel, router.MouseEvents[1].Event.Type)
	assert.Equal(t, int16(240), router.MouseEvents[1].Event.WheelDelta)
}

func TestSynthesizer_KeysAndChars(t *testing.T) {
	t.Parallel()

	m, platform, router := newTestManager()
	m.SetBlockAppInput(true)

	s := NewSynthesizer(m)
	assert.True(t, s.Key(0x41, true, false))
	assert.True(t, s.Char('a'))
	assert.True(t, s.Char('😀'))
	assert.True(t, s.Key(0x41, false, false))
	assert.True(t, s.Key(0x73, true, true))

	assert.Equal(t, []events.Payload{
		events.KeyboardInputEvent{Type: events.KeyDown, Code: 0x41},
		events.KeyboardInputEvent{Type: events.Char, Code: 'a'},
		events.KeyboardInputEvent{Type: events.Char, Code: 0xD83D},
		events.KeyboardInputEvent{Type: events.Char, Code: 0xDE00},
		events.KeyboardInputEvent{Type: events.KeyUp, Code: 0x41},
		events.KeyboardInputEvent{Type: events.KeyDown, Code: 0x73},
	}, router.Focused)
	assert.Equal(t, []uint32{WMKeyDown, WMSysKeyDown}, platform.Translated)
}

func TestSynthesizer_ResizeAndCursor(t *testing.T) {
	t.Parallel()

	m, platform, _ := newTestManager()
	s := NewSynthesizer(m)

	s.Resize(640, 480)
	assert.Equal(t, geom.Rect{Width: 640, Height: 480}, m.ClientArea())

	assert.False(t, s.SetCursor(), "the host sets its own cursor when not blocking")

	m.SetBlockAppInputCursor(cursor.Crosshair)
	m.SetBlockAppInput(true)
	assert.True(t, s.SetCursor())
	assert.Equal(t, cursor.Crosshair, platform.LastCursor())
}
