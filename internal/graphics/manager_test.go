package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

type fakeSource struct {
	sprites     []*Sprite
	invalidated int
	queue       TextureReleaser
}

func (f *fakeSource) Sprites() []*Sprite { return f.sprites }

func (f *fakeSource) InvalidateTextures() {
	f.invalidated++
	for _, s := range f.sprites {
		s.FreeTexture(f.queue)
	}
}

type countingFrames struct{ n int }

func (c *countingFrames) Frame() { c.n++ }

func solidBuffer(rect geom.Rect) []byte {
	return make([]byte, rect.BufferSize())
}

func TestManager_BeforePresent_RetriesInit(t *testing.T) {
	t.Parallel()

	r := NewHeadlessRenderer(logger.NewNoOpLogger(), 640, 480).FailInits(2)
	src := &fakeSource{queue: r}
	frames := &countingFrames{}
	m := NewManager(logger.NewNoOpLogger(), r, src, frames)

	m.BeforePresent()
	m.BeforePresent()
	assert.False(t, m.Initialized())
	assert.Equal(t, 0, r.Stats().Frames)

	m.BeforePresent()
	assert.True(t, m.Initialized())
	assert.Equal(t, 1, r.Stats().Frames)
	assert.Equal(t, 3, frames.n, "frames are counted even before init")
}

func TestManager_RendersInOrder(t *testing.T) {
	t.Parallel()

	r := NewHeadlessRenderer(logger.NewNoOpLogger(), 640, 480)
	rectA := geom.Rect{X: 1, Y: 2, Width: 2, Height: 2}
	rectB := geom.Rect{X: 5, Y: 5, Width: 3, Height: 1}

	a := NewSprite(rectA, 1)
	a.SetBuffer(solidBuffer(rectA))
	dim := NewFillSprite(geom.Color{R: 10}, 0.25)
	b := NewSprite(rectB, 0.5)
	b.SetBuffer(solidBuffer(rectB))

	src := &fakeSource{sprites: []*Sprite{a, dim, b}, queue: r}
	m := NewManager(logger.NewNoOpLogger(), r, src, nil)

	m.BeforePresent()

	frame := r.LastFrame()
	require.Len(t, frame, 3)
	assert.Equal(t, rectA, frame[0].Rect)
	assert.Equal(t, geom.Rect{Width: 640, Height: 480}, frame[1].Rect, "fill sprites cover the target")
	assert.True(t, frame[1].Solid)
	assert.InDelta(t, 0.25, frame[1].Opacity, 1e-9)
	assert.Equal(t, rectB, frame[2].Rect)
	assert.Equal(t, 3, r.Stats().Created)
	assert.False(t, a.BufferUpdated())
}

func TestManager_SkipsSpritesWithoutValidBuffer(t *testing.T) {
	t.Parallel()

	r := NewHeadlessRenderer(logger.NewNoOpLogger(), 100, 100)
	rect := geom.Rect{Width: 4, Height: 4}
	s := NewSprite(rect, 1)
	src := &fakeSource{sprites: []*Sprite{s}, queue: r}
	m := NewManager(logger.NewNoOpLogger(), r, src, nil)

	m.BeforePresent()
	assert.Empty(t, r.LastFrame())
	assert.Equal(t, 1, r.Stats().Skipped)

	s.SetBuffer(solidBuffer(rect))
	m.BeforePresent()
	assert.Len(t, r.LastFrame(), 1)
}

func TestManager_UploadsUpdatedBuffer(t *testing.T) {
	t.Parallel()

	r := NewHeadlessRenderer(logger.NewNoOpLogger(), 100, 100)
	rect := geom.Rect{Width: 2, Height: 2}
	s := NewSprite(rect, 1)
	s.SetBuffer(solidBuffer(rect))
	m := NewManager(logger.NewNoOpLogger(), r, &fakeSource{sprites: []*Sprite{s}, queue: r}, nil)

	m.BeforePresent()
	m.BeforePresent()
	assert.Equal(t, 0, r.Stats().Uploaded)

	s.SetBuffer(solidBuffer(rect))
	m.BeforePresent()
	assert.Equal(t, 1, r.Stats().Uploaded)
	assert.Equal(t, 1, r.Stats().Created)
}

func TestManager_OnReset(t *testing.T) {
	t.Parallel()

	r := NewHeadlessRenderer(logger.NewNoOpLogger(), 100, 100)
	rect := geom.Rect{Width: 2, Height: 2}
	s := NewSprite(rect, 1)
	s.SetBuffer(solidBuffer(rect))
	src := &fakeSource{sprites: []*Sprite{s}, queue: r}
	m := NewManager(logger.NewNoOpLogger(), r, src, nil)

	m.BeforePresent()
	require.Equal(t, 1, r.LiveTextures())

	m.OnReset(1920, 1080, true)

	w, h := r.Size()
	assert.Equal(t, uint32(1920), w)
	assert.Equal(t, uint32(1080), h)
	assert.Equal(t, 1, src.invalidated)
	assert.False(t, s.HasTexture())

	// The stale texture is released and a new one created on the next frame.
	m.BeforePresent()
	assert.Equal(t, 1, r.LiveTextures())
	assert.Equal(t, 1, r.Stats().Released)
	assert.Equal(t, 2, r.Stats().Created)
}
