package window

import (
	"math"
	"sync"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/graphics"
)

// Attributes are the client-controlled properties of a window.
type Attributes struct {
	Opacity float64
	Hidden  bool
}

// Valid reports whether the opacity is within [0,1].
func (a Attributes) Valid() bool {
	return validOpacity(a.Opacity)
}

func validOpacity(o float64) bool {
	return !math.IsNaN(o) && o >= 0 && o <= 1
}

// Info is a copy of a window's state.
type Info struct {
	ID         ID
	Rect       geom.Rect
	Attributes Attributes
	Cursor     cursor.Kind
	// Opacity is the effective opacity: window opacity times group opacity.
	Opacity float64
}

// Window is one client rectangle. Its sprite is owned exclusively and
// released with the window.
type Window struct {
	id     ID
	seq    uint64
	buffer bool
	sprite *graphics.Sprite

	mu           sync.Mutex
	rect         geom.Rect
	attrs        Attributes
	groupOpacity float64
	cursor       cursor.Kind
}

func newWindow(id ID, seq uint64, rect geom.Rect, attrs Attributes, groupOpacity float64) *Window {
	return &Window{
		id:           id,
		seq:          seq,
		sprite:       graphics.NewSprite(rect, attrs.Opacity*groupOpacity),
		rect:         rect,
		attrs:        attrs,
		groupOpacity: groupOpacity,
		cursor:       cursor.Default,
	}
}

// newBufferWindow creates the dimming layer of a group. Its opacity factor is
// the buffer opacity and it is never hidden on its own.
func newBufferWindow(id ID, seq uint64, color geom.Color, bufferOpacity, groupOpacity float64) *Window {
	return &Window{
		id:           id,
		seq:          seq,
		buffer:       true,
		sprite:       graphics.NewFillSprite(color, bufferOpacity*groupOpacity),
		attrs:        Attributes{Opacity: bufferOpacity},
		groupOpacity: groupOpacity,
		cursor:       cursor.Default,
	}
}

func (w *Window) info() Info {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Info{
		ID:         w.id,
		Rect:       w.rect,
		Attributes: w.attrs,
		Cursor:     w.cursor,
		Opacity:    w.attrs.Opacity * w.groupOpacity,
	}
}

// setAttributes stores attrs and reports whether hidden changed.
func (w *Window) setAttributes(attrs Attributes) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	hiddenChanged := w.attrs.Hidden != attrs.Hidden
	w.attrs = attrs
	w.sprite.SetOpacity(w.attrs.Opacity * w.groupOpacity)

	return hiddenChanged
}

// setGroupOpacity applies a new group factor. The window's own factor is
// untouched, so updates to either side commute.
func (w *Window) setGroupOpacity(o float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.groupOpacity = o
	w.sprite.SetOpacity(w.attrs.Opacity * w.groupOpacity)
}

func (w *Window) setRect(rect geom.Rect, q graphics.TextureReleaser) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rect = rect
	w.sprite.SetRect(rect, q)
}

func (w *Window) setCursor(kind cursor.Kind) {
	w.mu.Lock()
	w.cursor = kind
	w.mu.Unlock()
}

func (w *Window) getCursor() cursor.Kind {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.cursor
}

func (w *Window) hidden() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.attrs.Hidden
}

// composite returns what the compositor needs from the window in one lock.
func (w *Window) composite() (rect geom.Rect, hidden bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.rect, w.attrs.Hidden
}

// setBuffer replaces the pixel buffer. It reports false when the buffer does
// not match the window size.
func (w *Window) setBuffer(buf []byte) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rect.Empty() || len(buf) != w.rect.BufferSize() {
		return false
	}

	w.sprite.SetBuffer(buf)

	return true
}
