package graphics

import (
	"log/slog"
	"sync"

	"github.com/Norgate-AV/overlayd/internal/logger"
)

// SpriteSource supplies the z-ordered sprite list for each frame.
type SpriteSource interface {
	Sprites() []*Sprite
	InvalidateTextures()
}

// FrameRecorder is told about every presented frame.
type FrameRecorder interface {
	Frame()
}

// Manager ties a Renderer to the compositor at present time. It is driven by
// the host's present and reset hooks.
type Manager struct {
	log      logger.LoggerInterface
	renderer Renderer
	source   SpriteSource
	frames   FrameRecorder

	mu           sync.Mutex
	initialized  bool
	initFailures int
}

// NewManager creates a Manager. frames may be nil.
func NewManager(log logger.LoggerInterface, renderer Renderer, source SpriteSource, frames FrameRecorder) *Manager {
	return &Manager{
		log:      log.With(slog.String("component", "graphics")),
		renderer: renderer,
		source:   source,
		frames:   frames,
	}
}

// BeforePresent initializes the renderer on first use and draws the current
// sprite list. A failed init is retried on the next present.
func (m *Manager) BeforePresent() {
	if m.frames != nil {
		m.frames.Frame()
	}

	if !m.ensureInit() {
		return
	}

	m.renderer.RenderSprites(m.source.Sprites())
}

func (m *Manager) ensureInit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return true
	}

	if !m.renderer.Init() {
		m.initFailures++
		if m.initFailures == 1 {
			m.log.Error("Renderer initialization failed, will retry on next frame")
		} else {
			m.log.Trace("Renderer initialization retry failed", slog.Int("attempts", m.initFailures))
		}

		return false
	}

	m.initialized = true
	m.log.Info("Renderer initialized", slog.Int("failed_attempts", m.initFailures))

	return true
}

// OnReset forwards a device reset to the renderer and drops every window
// texture so it is recreated against the new device state.
func (m *Manager) OnReset(width, height uint32, fullscreen bool) {
	m.log.Debug("Device reset",
		slog.Any("width", width),
		slog.Any("height", height),
		slog.Bool("fullscreen", fullscreen),
	)

	m.renderer.OnResize(width, height, fullscreen)
	m.source.InvalidateTextures()
}

// Initialized reports whether the renderer has been initialized.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.initialized
}
