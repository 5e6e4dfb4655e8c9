// Package input decides which host window messages the overlay consumes and
// turns them into window events. It also owns the block-app-input state and
// the cursor shown while the overlay has the input.
package input

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// Manager is fed by the host's message hooks. HandleMessage and
// HandleWindowProc run on the host's UI thread; the block state is set from
// the compositor.
type Manager struct {
	log      logger.LoggerInterface
	platform interfaces.Platform

	block atomic.Bool

	// mu serializes block transitions and cursor changes.
	mu     sync.Mutex
	cursor cursor.Kind

	routerMu sync.RWMutex
	router   interfaces.WindowRouter

	areaMu         sync.Mutex
	clientArea     geom.Rect
	resizingMoving bool
}

// NewManager creates a Manager using platform for OS side effects. A nil
// platform selects NopPlatform.
func NewManager(log logger.LoggerInterface, platform interfaces.Platform) *Manager {
	if platform == nil {
		platform = NopPlatform{}
	}

	return &Manager{
		log:      log.With(slog.String("component", "input")),
		platform: platform,
		cursor:   cursor.Default,
	}
}

// AttachRouter sets where consumed input is routed.
func (m *Manager) AttachRouter(router interfaces.WindowRouter) {
	m.routerMu.Lock()
	m.router = router
	m.routerMu.Unlock()
}

func (m *Manager) getRouter() interfaces.WindowRouter {
	m.routerMu.RLock()
	defer m.routerMu.RUnlock()

	return m.router
}

// SetClientArea sets the host window's client rectangle, in client
// coordinates. Mouse input outside it is never consumed.
func (m *Manager) SetClientArea(area geom.Rect) {
	m.areaMu.Lock()
	m.clientArea = area
	m.areaMu.Unlock()
}

// ClientArea returns the current client rectangle.
func (m *Manager) ClientArea() geom.Rect {
	m.areaMu.Lock()
	defer m.areaMu.Unlock()

	return m.clientArea
}

// ResizingMoving reports whether the host window is in a size/move loop.
func (m *Manager) ResizingMoving() bool {
	m.areaMu.Lock()
	defer m.areaMu.Unlock()

	return m.resizingMoving
}

// BlockAppInput reports whether host input is currently blocked.
func (m *Manager) BlockAppInput() bool {
	return m.block.Load()
}

// SetBlockAppInput blocks or unblocks host input. Blocking releases held
// keys and saves the host cursor; unblocking restores it.
func (m *Manager) SetBlockAppInput(block bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.block.Load() == block {
		return
	}

	if block {
		m.platform.ReleasePressedKeys()
		m.platform.SaveCursorState()
	} else {
		m.platform.RestoreCursorState()
	}

	m.block.Store(block)
	m.log.Debug("Block app input changed", slog.Bool("block", block))

	if block {
		m.platform.SetCursor(m.cursor)
	}
}

// BlockAppInputCursor returns the cursor shown while input is blocked.
func (m *Manager) BlockAppInputCursor() cursor.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cursor
}

// SetBlockAppInputCursor changes the cursor shown while input is blocked.
func (m *Manager) SetBlockAppInputCursor(kind cursor.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == kind {
		return
	}

	m.cursor = kind
	if m.block.Load() {
		m.platform.SetCursor(kind)
	}
}

// HandleMessage inspects a message taken off the host's queue. Consumed
// messages are routed and replaced with WM_NULL; the result reports whether
// that happened.
func (m *Manager) HandleMessage(msg *Message) bool {
	blocking := m.block.Load()

	switch {
	case isKeyboard(msg.Msg):
		if msg.Msg == WMKeyUp && msg.LParam == KeyUpPassthroughLParam {
			msg.LParam = keyUpLParam(m.platform.ScanCode(uint8(msg.WParam)))
			return false
		}

		if !blocking {
			return false
		}

		if msg.Msg == WMKeyDown || msg.Msg == WMSysKeyDown {
			m.platform.TranslateMessage(msg.Msg, msg.WParam, msg.LParam)
		}

		if ev, ok := KeyboardEvent(msg.Msg, msg.WParam); ok {
			if r := m.getRouter(); r != nil {
				r.SendWindowEventToFocusedWindow(ev)
			}
		}

		msg.Msg = WMNull

		return true

	case isMouse(msg.Msg):
		pt := pointFromLParam(msg.LParam)
		if msg.Msg == WMMouseWheel || msg.Msg == WMMouseHWheel {
			pt = m.platform.ScreenToClient(pt)
		}

		if !blocking || m.ResizingMoving() || !m.ClientArea().Contains(pt) {
			return false
		}

		if ev, ok := MouseEvent(msg.Msg, msg.WParam); ok {
			if r := m.getRouter(); r != nil {
				r.HandleMouseEvent(ev, pt)
			}
		}

		msg.Msg = WMNull

		return true

	case msg.Msg == WMInput && blocking:
		msg.Msg = WMNull
		return true
	}

	return false
}

// HandleWindowProc observes messages sent to the host's window procedure.
// It reports true when the message was handled and must not reach the host.
func (m *Manager) HandleWindowProc(msg uint32, wParam, lParam uintptr) bool {
	switch msg {
	case WMEnterSizeMove:
		m.setResizingMoving(true)
	case WMExitSizeMove:
		m.setResizingMoving(false)
	case WMSize:
		m.SetClientArea(geom.Rect{Width: uint32(loword(lParam)), Height: uint32(hiword(lParam))})
	case WMSetCursor:
		if m.block.Load() && loword(lParam) == HTClient {
			m.platform.SetCursor(m.BlockAppInputCursor())
			return true
		}
	}

	return false
}

func (m *Manager) setResizingMoving(v bool) {
	m.areaMu.Lock()
	m.resizingMoving = v
	m.areaMu.Unlock()

	m.log.Trace("Host window size/move", slog.Bool("active", v))
}
