package graphics

import (
	"log/slog"
	"sync"

	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// DrawCall is one sprite drawn by the headless renderer.
type DrawCall struct {
	Rect    geom.Rect
	Opacity float64
	Solid   bool
	Color   geom.Color
}

// HeadlessStats counts renderer activity.
type HeadlessStats struct {
	Frames   int
	Created  int
	Uploaded int
	Released int
	Skipped  int
}

type headlessTexture struct {
	width  uint32
	height uint32
	pixels []byte
}

// HeadlessRenderer keeps textures in memory and records what each frame
// would draw. It backs the simulate command and tests.
type HeadlessRenderer struct {
	TextureQueue

	log logger.LoggerInterface

	mu         sync.Mutex
	failInits  int
	width      uint32
	height     uint32
	fullscreen bool
	live       map[*headlessTexture]struct{}
	stats      HeadlessStats
	lastFrame  []DrawCall
}

// NewHeadlessRenderer creates a renderer with a width x height target.
func NewHeadlessRenderer(log logger.LoggerInterface, width, height uint32) *HeadlessRenderer {
	return &HeadlessRenderer{
		log:    log.With(slog.String("renderer", string(BackendHeadless))),
		width:  width,
		height: height,
		live:   make(map[*headlessTexture]struct{}),
	}
}

// FailInits makes the next n calls to Init fail.
func (r *HeadlessRenderer) FailInits(n int) *HeadlessRenderer {
	r.mu.Lock()
	r.failInits = n
	r.mu.Unlock()

	return r
}

func (r *HeadlessRenderer) Init() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failInits > 0 {
		r.failInits--
		return false
	}

	return true
}

func (r *HeadlessRenderer) OnResize(width, height uint32, fullscreen bool) {
	r.mu.Lock()
	r.width, r.height, r.fullscreen = width, height, fullscreen
	r.mu.Unlock()
}

func (r *HeadlessRenderer) RenderSprites(sprites []*Sprite) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Released += r.ReleaseTextures(func(tex Texture) {
		if t, ok := tex.(*headlessTexture); ok {
			delete(r.live, t)
		}
	})

	frame := make([]DrawCall, 0, len(sprites))
	for _, s := range sprites {
		drawn := s.Use(func(st *State) {
			if !r.prepare(st) {
				r.stats.Skipped++
				return
			}

			rect := st.Rect
			if st.FillTarget {
				rect = geom.Rect{Width: r.width, Height: r.height}
			}

			frame = append(frame, DrawCall{
				Rect:    rect,
				Opacity: st.Opacity,
				Solid:   st.SolidColor,
				Color:   st.Color,
			})
		})
		if !drawn {
			r.stats.Skipped++
		}
	}

	r.lastFrame = frame
	r.stats.Frames++
	r.log.Trace("Frame rendered", slog.Int("sprites", len(frame)))
}

// prepare makes sure st has an up to date texture. It reports false when the
// sprite has nothing drawable yet.
func (r *HeadlessRenderer) prepare(st *State) bool {
	if st.SolidColor {
		if st.Texture == nil {
			st.Texture = r.create(1, 1, []byte{st.Color.B, st.Color.G, st.Color.R, 0xFF})
		}

		return true
	}

	valid := !st.Rect.Empty() && len(st.Buffer) == st.Rect.BufferSize()

	if st.Texture == nil {
		if !valid {
			return false
		}

		st.Texture = r.create(st.Rect.Width, st.Rect.Height, st.Buffer)
		st.BufferUpdated = false

		return true
	}

	if st.BufferUpdated && valid {
		tex := st.Texture.(*headlessTexture)
		if tex.width == st.Rect.Width && tex.height == st.Rect.Height {
			copy(tex.pixels, st.Buffer)
			r.stats.Uploaded++
		}

		st.BufferUpdated = false
	}

	return true
}

func (r *HeadlessRenderer) create(width, height uint32, pixels []byte) *headlessTexture {
	tex := &headlessTexture{
		width:  width,
		height: height,
		pixels: append([]byte(nil), pixels...),
	}

	r.live[tex] = struct{}{}
	r.stats.Created++

	return tex
}

// LastFrame returns the draw calls of the most recent frame.
func (r *HeadlessRenderer) LastFrame() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]DrawCall(nil), r.lastFrame...)
}

// Stats returns the activity counters.
func (r *HeadlessRenderer) Stats() HeadlessStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stats
}

// LiveTextures returns the number of textures not yet released.
func (r *HeadlessRenderer) LiveTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}

// Size returns the current render target size.
func (r *HeadlessRenderer) Size() (uint32, uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.width, r.height
}
