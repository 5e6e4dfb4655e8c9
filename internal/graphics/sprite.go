// Package graphics holds the render-agnostic sprite model, the renderer
// capability consumed by the overlay, and the present-time orchestration.
package graphics

import (
	"sync"

	"github.com/Norgate-AV/overlayd/internal/geom"
)

// Texture is an opaque, render-thread owned handle created by a Renderer.
type Texture any

// TextureReleaser accepts textures to be destroyed on the render thread.
// Implementations must be safe for use from any goroutine.
type TextureReleaser interface {
	QueueTextureRelease(tex Texture)
}

// Sprite is the drawable unit handed to a Renderer. A window owns exactly one
// sprite; the compositor publishes sprite pointers in z order.
type Sprite struct {
	mu sync.Mutex

	rect          geom.Rect
	opacity       float64
	buffer        []byte
	solidColor    bool
	color         geom.Color
	fillTarget    bool
	bufferUpdated bool
	texture       Texture
	released      bool
}

// NewSprite creates a sprite that will be drawn from a pixel buffer.
func NewSprite(rect geom.Rect, opacity float64) *Sprite {
	return &Sprite{rect: rect, opacity: opacity}
}

// NewFillSprite creates a solid colour sprite stretched over the whole render
// target regardless of its rect.
func NewFillSprite(color geom.Color, opacity float64) *Sprite {
	return &Sprite{
		opacity:    opacity,
		solidColor: true,
		color:      color,
		fillTarget: true,
	}
}

// State is the view of a sprite a Renderer works with inside Use.
type State struct {
	Rect       geom.Rect
	Opacity    float64
	Buffer     []byte
	SolidColor bool
	Color      geom.Color
	FillTarget bool

	// Renderer-owned fields, written back when Use returns.
	BufferUpdated bool
	Texture       Texture
}

// Use gives the renderer exclusive access to the sprite for the duration of
// fn. Only Texture and BufferUpdated are written back. Buffer must not be
// retained after fn returns. Use reports false, without calling fn, once the
// sprite has been released.
func (s *Sprite) Use(fn func(st *State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return false
	}

	st := State{
		Rect:          s.rect,
		Opacity:       s.opacity,
		Buffer:        s.buffer,
		SolidColor:    s.solidColor,
		Color:         s.color,
		FillTarget:    s.fillTarget,
		BufferUpdated: s.bufferUpdated,
		Texture:       s.texture,
	}

	fn(&st)

	s.texture = st.Texture
	s.bufferUpdated = st.BufferUpdated

	return true
}

// Rect returns the sprite rectangle.
func (s *Sprite) Rect() geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rect
}

// SetRect moves or resizes the sprite. A size change drops the texture.
func (s *Sprite) SetRect(rect geom.Rect, q TextureReleaser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rect.SameSize(rect) {
		s.freeTextureLocked(q)
	}

	s.rect = rect
}

// Opacity returns the effective opacity the sprite is drawn with.
func (s *Sprite) Opacity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.opacity
}

// SetOpacity sets the effective opacity.
func (s *Sprite) SetOpacity(opacity float64) {
	s.mu.Lock()
	s.opacity = opacity
	s.mu.Unlock()
}

// SetBuffer replaces the pixel buffer and flags it for upload on the next
// render. The sprite takes ownership of buf.
func (s *Sprite) SetBuffer(buf []byte) {
	s.mu.Lock()
	s.buffer = buf
	s.bufferUpdated = true
	s.mu.Unlock()
}

// BufferUpdated reports whether a buffer is waiting to be uploaded.
func (s *Sprite) BufferUpdated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bufferUpdated
}

// Color returns the fill colour of a solid sprite.
func (s *Sprite) Color() geom.Color {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.color
}

// SetColor changes the fill colour. The texture is regenerated.
func (s *Sprite) SetColor(color geom.Color, q TextureReleaser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.color != color {
		s.freeTextureLocked(q)
	}

	s.color = color
}

// SolidColor reports whether the sprite is a colour fill.
func (s *Sprite) SolidColor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.solidColor
}

// FillTarget reports whether the sprite stretches over the render target.
func (s *Sprite) FillTarget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fillTarget
}

// HasTexture reports whether the renderer currently holds a texture for s.
func (s *Sprite) HasTexture() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.texture != nil
}

// FreeTexture hands the texture to q for release on the render thread.
func (s *Sprite) FreeTexture(q TextureReleaser) {
	s.mu.Lock()
	s.freeTextureLocked(q)
	s.mu.Unlock()
}

// Release frees the texture and retires the sprite. A stale sprite list may
// still reach the renderer, which then skips it instead of creating a texture
// nobody will free.
func (s *Sprite) Release(q TextureReleaser) {
	s.mu.Lock()
	s.freeTextureLocked(q)
	s.buffer = nil
	s.released = true
	s.mu.Unlock()
}

// Released reports whether Release has been called.
func (s *Sprite) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.released
}

func (s *Sprite) freeTextureLocked(q TextureReleaser) {
	if s.texture == nil {
		return
	}

	if q != nil {
		q.QueueTextureRelease(s.texture)
	}

	s.texture = nil
}
