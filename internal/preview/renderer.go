// Package preview renders the overlay into a desktop window with ebiten and
// feeds the window's mouse and keyboard into the input layer, standing in
// for a real host application.
package preview

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// Renderer draws sprites onto the ebiten screen. Textures are
// *ebiten.Image values and are only touched from Draw.
type Renderer struct {
	graphics.TextureQueue

	log logger.LoggerInterface

	mu     sync.Mutex
	target *ebiten.Image
	width  uint32
	height uint32
}

// NewRenderer creates a Renderer for a width x height screen.
func NewRenderer(log logger.LoggerInterface, width, height uint32) *Renderer {
	return &Renderer{
		log:    log.With(slog.String("renderer", string(graphics.BackendPreview))),
		width:  width,
		height: height,
	}
}

// SetTarget selects the image the next RenderSprites draws onto.
func (r *Renderer) SetTarget(screen *ebiten.Image) {
	r.mu.Lock()
	r.target = screen
	r.mu.Unlock()
}

// Init succeeds once ebiten has handed over a screen.
func (r *Renderer) Init() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.target != nil
}

func (r *Renderer) OnResize(width, height uint32, _ bool) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

func (r *Renderer) RenderSprites(sprites []*graphics.Sprite) {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := r.ReleaseTextures(func(tex graphics.Texture) {
		if img, ok := tex.(*ebiten.Image); ok {
			img.Deallocate()
		}
	})
	if released > 0 {
		r.log.Trace("Textures released", slog.Int("count", released))
	}

	if r.target == nil {
		return
	}

	for _, s := range sprites {
		s.Use(r.draw)
	}
}

func (r *Renderer) draw(st *graphics.State) {
	img := r.prepare(st)
	if img == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}

	if st.FillTarget {
		op.GeoM.Scale(float64(r.width), float64(r.height))
	} else {
		op.GeoM.Translate(float64(st.Rect.X), float64(st.Rect.Y))
	}

	op.ColorScale.ScaleAlpha(float32(st.Opacity))
	r.target.DrawImage(img, op)
}

// prepare returns an up to date texture for st, creating or uploading as
// needed. It returns nil while the sprite has nothing drawable.
func (r *Renderer) prepare(st *graphics.State) *ebiten.Image {
	if st.SolidColor {
		if st.Texture == nil {
			img := ebiten.NewImage(1, 1)
			img.Fill(color.RGBA{R: st.Color.R, G: st.Color.G, B: st.Color.B, A: 0xFF})
			st.Texture = img
		}

		return st.Texture.(*ebiten.Image)
	}

	valid := !st.Rect.Empty() && len(st.Buffer) == st.Rect.BufferSize()

	if st.Texture == nil {
		if !valid {
			return nil
		}

		st.Texture = ebiten.NewImage(int(st.Rect.Width), int(st.Rect.Height))
		st.BufferUpdated = true
	}

	img := st.Texture.(*ebiten.Image)

	if st.BufferUpdated && valid {
		img.WritePixels(premultiply(st.Buffer))
		st.BufferUpdated = false
	}

	return img
}

// premultiply converts straight-alpha BGRA into the premultiplied RGBA
// ebiten expects.
func premultiply(bgra []byte) []byte {
	out := make([]byte, len(bgra))
	for i := 0; i+3 < len(bgra); i += 4 {
		a := uint16(bgra[i+3])
		out[i] = uint8(uint16(bgra[i+2]) * a / 0xFF)
		out[i+1] = uint8(uint16(bgra[i+1]) * a / 0xFF)
		out[i+2] = uint8(uint16(bgra[i]) * a / 0xFF)
		out[i+3] = uint8(a)
	}

	return out
}
