package window

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/testutil"
)

type fixture struct {
	wm    *Manager
	input *testutil.MockInputController
	sink  *testutil.MockEventSink
	queue *graphics.TextureQueue
}

func newFixture() *fixture {
	f := &fixture{
		input: testutil.NewMockInputController(),
		sink:  testutil.NewMockEventSink(),
		queue: &graphics.TextureQueue{},
	}

	f.wm = NewManager(Options{
		Input:    f.input,
		Events:   f.sink,
		Textures: f.queue,
		Log:      logger.NewNoOpLogger(),
	})

	return f
}

func visibleGroup(z int32) GroupAttributes {
	return GroupAttributes{Z: z, Opacity: 1, BufferOpacity: 1}
}

func opaque() Attributes {
	return Attributes{Opacity: 1}
}

func rect(x, y int32, w, h uint32) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

func order(wm *Manager) []ID {
	var ids []ID
	for _, h := range wm.WindowRects() {
		ids = append(ids, h.ID)
	}

	return ids
}

// withTexture gives a sprite a fake texture as if it had been rendered.
func withTexture(s *graphics.Sprite) {
	s.Use(func(st *graphics.State) { st.Texture = "tex" })
}

func TestManager_ScenarioA_ZOrder(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g1 := f.wm.CreateWindowGroup("client", visibleGroup(0))
	w1 := f.wm.CreateWindowInGroup(g1, rect(0, 0, 100, 100), opaque())
	g2 := f.wm.CreateWindowGroup("client", visibleGroup(1))
	w2 := f.wm.CreateWindowInGroup(g2, rect(0, 0, 50, 50), opaque())

	assert.Equal(t, []ID{w1, w2}, order(f.wm))
	assert.Equal(t, w2, f.wm.FocusedWindowID())
	assert.Len(t, f.wm.Sprites(), 2)
}

func TestManager_ZOrderIndependentOfCreation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	top := f.wm.CreateWindowGroup("a", visibleGroup(5))
	wTop := f.wm.CreateWindowInGroup(top, rect(0, 0, 10, 10), opaque())
	bottom := f.wm.CreateWindowGroup("b", visibleGroup(-3))
	wBottom := f.wm.CreateWindowInGroup(bottom, rect(0, 0, 10, 10), opaque())
	tie := f.wm.CreateWindowGroup("c", visibleGroup(5))
	wTie := f.wm.CreateWindowInGroup(tie, rect(0, 0, 10, 10), opaque())

	assert.Equal(t, []ID{wBottom, wTop, wTie}, order(f.wm), "ties keep creation order")

	attrs := visibleGroup(-10)
	require.True(t, f.wm.UpdateWindowGroupAttributes(tie, attrs))
	assert.Equal(t, []ID{wTie, wBottom, wTop}, order(f.wm))
	assert.Equal(t, wTop, f.wm.FocusedWindowID())
}

func TestManager_ScenarioB_BufferWindow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g1 := f.wm.CreateWindowGroup("client", visibleGroup(0))
	w1 := f.wm.CreateWindowInGroup(g1, rect(0, 0, 100, 100), opaque())
	blocking, _ := f.input.State()
	assert.False(t, blocking)

	attrs := visibleGroup(0)
	attrs.HasBuffer = true
	attrs.BufferColor = geom.Color{R: 0x10, G: 0x20, B: 0x30}
	attrs.BufferOpacity = 0.5
	require.True(t, f.wm.UpdateWindowGroupAttributes(g1, attrs))

	blocking, _ = f.input.State()
	assert.True(t, blocking)

	layers := f.wm.Layers()
	require.Len(t, layers, 2)
	assert.True(t, layers[0].Buffer)
	assert.Equal(t, g1.ID, layers[0].ID.GroupID)
	assert.Equal(t, Layer{ID: w1}, layers[1])

	buffer := f.wm.Sprites()[0]
	assert.True(t, buffer.SolidColor())
	assert.True(t, buffer.FillTarget())
	assert.Equal(t, attrs.BufferColor, buffer.Color())
	assert.InDelta(t, 0.5, buffer.Opacity(), 1e-9)

	// Buffer windows are never hit-tested nor focused.
	assert.Equal(t, []ID{w1}, order(f.wm))
	assert.Equal(t, w1, f.wm.FocusedWindowID())

	// Hiding the group lifts the block.
	attrs.Hidden = true
	require.True(t, f.wm.UpdateWindowGroupAttributes(g1, attrs))
	blocking, _ = f.input.State()
	assert.False(t, blocking)
	assert.Empty(t, f.wm.Sprites())
}

// An attribute update that does not recompose must not overwrite the block
// state pushed by a concurrent buffer toggle with its older reading.
func TestManager_BlockStateNotOverwrittenByConcurrentUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	a := f.wm.CreateWindowGroup("client", visibleGroup(0))
	b := f.wm.CreateWindowGroup("client", visibleGroup(1))

	entered := make(chan struct{})
	release := make(chan struct{})
	f.input.WithCursorGate(entered, release)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		// Opacity only: refreshes the policy without recomposing.
		attrs := visibleGroup(0)
		attrs.Opacity = 0.5
		f.wm.UpdateWindowGroupAttributes(a, attrs)
	}()

	<-entered

	go func() {
		defer wg.Done()

		attrs := visibleGroup(1)
		attrs.HasBuffer = true
		f.wm.UpdateWindowGroupAttributes(b, attrs)
	}()

	// Let the buffer toggle run as far as it can while the first push is
	// paused.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.True(t, f.wm.BlockAppInput())
	blocking, _ := f.input.State()
	assert.True(t, blocking, "Input layer must end up with the latest block state")
}

func TestManager_BufferPrecedesGroupWindows(t *testing.T) {
	t.Parallel()

	f := newFixture()
	low := f.wm.CreateWindowGroup("a", visibleGroup(0))
	f.wm.CreateWindowInGroup(low, rect(0, 0, 10, 10), opaque())

	attrs := visibleGroup(1)
	attrs.HasBuffer = true
	modal := f.wm.CreateWindowGroup("b", attrs)
	m1 := f.wm.CreateWindowInGroup(modal, rect(0, 0, 10, 10), opaque())
	m2 := f.wm.CreateWindowInGroup(modal, rect(0, 0, 10, 10), opaque())

	layers := f.wm.Layers()
	require.Len(t, layers, 4)
	assert.False(t, layers[0].Buffer)
	assert.True(t, layers[1].Buffer)
	assert.Equal(t, modal.ID, layers[1].ID.GroupID)
	assert.Equal(t, m2, layers[2].ID)
	assert.Equal(t, m1, layers[3].ID, "first visible window is the group's focus")
}

func TestManager_BufferColourUpdatedInPlace(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attrs := visibleGroup(0)
	attrs.HasBuffer = true
	attrs.BufferOpacity = 0.4
	g := f.wm.CreateWindowGroup("a", attrs)

	buffer := f.wm.Sprites()[0]
	withTexture(buffer)

	attrs.BufferColor = geom.Color{R: 0xFF}
	attrs.BufferOpacity = 0.8
	attrs.Opacity = 0.5
	require.True(t, f.wm.UpdateWindowGroupAttributes(g, attrs))

	assert.Same(t, buffer, f.wm.Sprites()[0])
	assert.Equal(t, geom.Color{R: 0xFF}, buffer.Color())
	assert.InDelta(t, 0.4, buffer.Opacity(), 1e-9, "buffer opacity times group opacity")
	assert.False(t, buffer.HasTexture())
	assert.Equal(t, 1, f.queue.Pending())

	attrs.HasBuffer = false
	require.True(t, f.wm.UpdateWindowGroupAttributes(g, attrs))
	assert.Empty(t, f.wm.Sprites())
	assert.True(t, buffer.Released())
}

func TestManager_ScenarioC_DestroyGroup(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g1 := f.wm.CreateWindowGroup("client", visibleGroup(0))
	w1 := f.wm.CreateWindowInGroup(g1, rect(0, 0, 100, 100), opaque())
	g2 := f.wm.CreateWindowGroup("client", visibleGroup(1))
	w2 := f.wm.CreateWindowInGroup(g2, rect(0, 0, 50, 50), opaque())

	sprite := f.wm.Sprites()[0]
	withTexture(sprite)

	require.True(t, f.wm.DestroyWindowGroup(g1))

	assert.Equal(t, []ID{w2}, order(f.wm))
	_, ok := f.wm.LookupWindow(w1)
	assert.False(t, ok)
	assert.True(t, sprite.Released())
	assert.Equal(t, 1, f.queue.Pending())

	// Stale ids resolve to not found.
	assert.False(t, f.wm.DestroyWindowGroup(g1))
	assert.False(t, f.wm.SetWindowRect(w1, rect(0, 0, 1, 1)))
	assert.True(t, f.wm.CreateWindowInGroup(g1, rect(0, 0, 1, 1), opaque()).IsEmpty())
}

func TestManager_ScenarioD_SetWindowRect(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	w := f.wm.CreateWindowInGroup(g, rect(0, 0, 50, 50), opaque())
	sprite := f.wm.Sprites()[0]
	withTexture(sprite)

	require.True(t, f.wm.SetWindowRect(w, rect(10, 10, 50, 50)))
	assert.True(t, sprite.HasTexture(), "moving keeps the texture")
	assert.Equal(t, 0, f.queue.Pending())

	require.True(t, f.wm.SetWindowRect(w, rect(10, 10, 80, 40)))
	assert.False(t, sprite.HasTexture())
	assert.Equal(t, 1, f.queue.Pending())

	info, ok := f.wm.LookupWindow(w)
	require.True(t, ok)
	assert.Equal(t, rect(10, 10, 80, 40), info.Rect)
	assert.Equal(t, rect(10, 10, 80, 40), sprite.Rect())
	assert.Equal(t, rect(10, 10, 80, 40), f.wm.WindowRects()[0].Rect)
}

func TestManager_OpacityComposition(t *testing.T) {
	t.Parallel()

	f := newFixture()
	gAttrs := visibleGroup(0)
	g := f.wm.CreateWindowGroup("client", gAttrs)
	w := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), Attributes{Opacity: 0.5})
	sprite := f.wm.Sprites()[0]

	steps := []struct {
		name   string
		group  float64
		window float64
	}{
		{name: "group dims", group: 0.5, window: 0.5},
		{name: "window transparent", group: 0.5, window: 0},
		{name: "group transparent", group: 0, window: 0},
		{name: "window restored while group transparent", group: 0, window: 0.8},
		{name: "group restored", group: 1, window: 0.8},
		{name: "both change", group: 0.25, window: 1},
	}

	for _, step := range steps {
		gAttrs.Opacity = step.group
		require.True(t, f.wm.UpdateWindowGroupAttributes(g, gAttrs), step.name)
		require.True(t, f.wm.UpdateWindowAttributes(w, Attributes{Opacity: step.window}), step.name)

		assert.InDelta(t, step.group*step.window, sprite.Opacity(), 1e-9, step.name)

		info, ok := f.wm.LookupWindow(w)
		require.True(t, ok)
		assert.InDelta(t, step.group*step.window, info.Opacity, 1e-9, step.name)
	}
}

func TestManager_NewWindowInheritsGroupOpacity(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attrs := visibleGroup(0)
	attrs.Opacity = 0.5
	g := f.wm.CreateWindowGroup("client", attrs)
	f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), Attributes{Opacity: 0.5})

	assert.InDelta(t, 0.25, f.wm.Sprites()[0].Opacity(), 1e-9)
}

func TestManager_UpdateWindowsIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	for z := int32(3); z >= 0; z-- {
		attrs := visibleGroup(z % 2)
		attrs.HasBuffer = z == 2
		g := f.wm.CreateWindowGroup("client", attrs)
		f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
		f.wm.CreateWindowInGroup(g, rect(5, 5, 10, 10), opaque())
	}

	f.wm.UpdateWindows()
	sprites, rects, layers := f.wm.Sprites(), f.wm.WindowRects(), f.wm.Layers()

	f.wm.UpdateWindows()
	assert.Equal(t, sprites, f.wm.Sprites())
	assert.Equal(t, rects, f.wm.WindowRects())
	assert.Equal(t, layers, f.wm.Layers())
}

func TestManager_FocusWithinGroup(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	a := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
	b := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
	c := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())

	assert.Equal(t, []ID{b, c, a}, order(f.wm))
	assert.Equal(t, a, f.wm.FocusedWindowID())

	require.True(t, f.wm.FocusWindowInGroup(b))
	assert.Equal(t, []ID{a, c, b}, order(f.wm))
	assert.Equal(t, b, f.wm.FocusedWindowID())

	assert.Equal(t, []events.Payload{events.FocusEvent{}, events.BlurEvent{}}, f.sink.ForWindow(a.ID))
	assert.Equal(t, []events.Payload{events.FocusEvent{}}, f.sink.ForWindow(b.ID))
}

func TestManager_HiddenWindows(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	hidden := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), Attributes{Opacity: 1, Hidden: true})
	shown := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())

	assert.Equal(t, []ID{shown}, order(f.wm), "hidden windows are not composited")
	assert.Equal(t, shown, f.wm.FocusedWindowID(), "first visible window takes group focus")
	assert.False(t, f.wm.FocusWindowInGroup(hidden), "hidden windows cannot be focused")

	require.True(t, f.wm.UpdateWindowAttributes(hidden, opaque()))
	assert.Equal(t, []ID{shown, hidden}, order(f.wm), "showing a window focuses it")
	assert.Equal(t, hidden, f.wm.FocusedWindowID())

	require.True(t, f.wm.UpdateWindowAttributes(hidden, Attributes{Opacity: 1, Hidden: true}))
	assert.Equal(t, []ID{shown}, order(f.wm))
	assert.Equal(t, shown, f.wm.FocusedWindowID())

	require.True(t, f.wm.UpdateWindowAttributes(shown, Attributes{Opacity: 1, Hidden: true}))
	assert.Empty(t, order(f.wm))
	assert.True(t, f.wm.FocusedWindowID().IsEmpty())
}

func TestManager_DestroyWindowInGroup(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	a := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
	b := f.wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
	require.Equal(t, a, f.wm.FocusedWindowID())

	require.True(t, f.wm.DestroyWindowInGroup(a))
	assert.Equal(t, []ID{b}, order(f.wm))
	assert.Equal(t, b, f.wm.FocusedWindowID())
	assert.False(t, f.wm.DestroyWindowInGroup(a))
}

func TestManager_UpdateWindowBufferInGroup(t *testing.T) {
	t.Parallel()

	f := newFixture()
	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	r := rect(0, 0, 4, 2)
	w := f.wm.CreateWindowInGroup(g, r, opaque())
	sprite := f.wm.Sprites()[0]

	assert.False(t, f.wm.UpdateWindowBufferInGroup(w, make([]byte, 10)), "wrong size")
	assert.False(t, sprite.BufferUpdated())

	require.True(t, f.wm.UpdateWindowBufferInGroup(w, testutil.PixelBuffer(r, geom.Color{R: 1}, 0xFF)))
	assert.True(t, sprite.BufferUpdated())

	assert.False(t, f.wm.UpdateWindowBufferInGroup(ID{}, nil))
}

func TestManager_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	f := newFixture()
	bad := visibleGroup(0)
	bad.Opacity = 1.5
	assert.True(t, f.wm.CreateWindowGroup("client", bad).IsEmpty())

	g := f.wm.CreateWindowGroup("client", visibleGroup(0))
	assert.False(t, f.wm.UpdateWindowGroupAttributes(g, bad))
	assert.True(t, f.wm.CreateWindowInGroup(g, rect(0, 0, 1, 1), Attributes{Opacity: -0.1}).IsEmpty())

	w := f.wm.CreateWindowInGroup(g, rect(0, 0, 1, 1), opaque())
	assert.False(t, f.wm.UpdateWindowAttributes(w, Attributes{Opacity: 2}))
	assert.False(t, f.wm.SetWindowCursor(w, cursor.Kind(999)))

	other := GroupID{ID: g.ID, ClientID: "intruder"}
	assert.False(t, f.wm.UpdateWindowGroupAttributes(other, visibleGroup(1)), "client id is part of the key")
}

func TestManager_DestroyClientWindowGroups(t *testing.T) {
	t.Parallel()

	f := newFixture()
	a1 := f.wm.CreateWindowGroup("a", visibleGroup(0))
	f.wm.CreateWindowInGroup(a1, rect(0, 0, 1, 1), opaque())
	a2 := f.wm.CreateWindowGroup("a", visibleGroup(1))
	f.wm.CreateWindowInGroup(a2, rect(0, 0, 1, 1), opaque())
	b := f.wm.CreateWindowGroup("b", visibleGroup(0))
	wb := f.wm.CreateWindowInGroup(b, rect(0, 0, 1, 1), opaque())

	assert.Equal(t, 2, f.wm.DestroyClientWindowGroups("a"))
	assert.Equal(t, []ID{wb}, order(f.wm))
	assert.Equal(t, 0, f.wm.DestroyClientWindowGroups("a"))
}

func TestManager_InvalidateTextures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attrs := visibleGroup(0)
	attrs.HasBuffer = true
	g := f.wm.CreateWindowGroup("client", attrs)
	f.wm.CreateWindowInGroup(g, rect(0, 0, 1, 1), opaque())

	for _, s := range f.wm.Sprites() {
		withTexture(s)
	}

	f.wm.InvalidateTextures()

	assert.Equal(t, 2, f.queue.Pending())
	for _, s := range f.wm.Sprites() {
		assert.False(t, s.HasTexture())
	}
}

func TestManager_PresentReleasesDestroyedTextures(t *testing.T) {
	t.Parallel()

	renderer := testutil.NewMockRenderer().WithInitResult(false)
	wm := NewManager(Options{
		Input:    testutil.NewMockInputController(),
		Events:   testutil.NewMockEventSink(),
		Textures: renderer,
		Log:      logger.NewNoOpLogger(),
	})
	gm := graphics.NewManager(logger.NewNoOpLogger(), renderer, wm, nil)

	g := wm.CreateWindowGroup("client", visibleGroup(0))
	w1 := wm.CreateWindowInGroup(g, rect(0, 0, 10, 10), opaque())
	wm.CreateWindowInGroup(g, rect(20, 0, 10, 10), opaque())

	gm.BeforePresent()
	assert.Empty(t, renderer.Frames, "Nothing is drawn until the renderer initializes")

	renderer.WithInitResult(true)
	gm.BeforePresent()
	require.Len(t, renderer.Frames, 1)
	assert.Len(t, renderer.Frames[0], 2)

	withTexture(wm.Sprites()[0])
	require.True(t, wm.DestroyWindowInGroup(w1))
	assert.Equal(t, 1, renderer.Pending(), "Texture waits for the next present")

	gm.BeforePresent()
	require.Len(t, renderer.Frames, 2)
	assert.Len(t, renderer.Frames[1], 1)
	assert.Equal(t, []graphics.Texture{"tex"}, renderer.Released)
	assert.Equal(t, 2, renderer.InitCalls)
}
