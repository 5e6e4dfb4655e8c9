//go:build windows

package windows

import (
	"log/slog"
	"sync"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// Platform applies input blocking to a Win32 host window.
type Platform struct {
	log  logger.LoggerInterface
	hwnd uintptr

	mu    sync.Mutex
	saved cursorState
}

// NewPlatform creates a Platform for hwnd. A zero hwnd targets this
// process's foreground window at the time of each call.
func NewPlatform(log logger.LoggerInterface, hwnd uintptr) *Platform {
	return &Platform{
		log:  log.With(slog.String("component", "win32")),
		hwnd: hwnd,
	}
}

func (p *Platform) window() uintptr {
	if p.hwnd != 0 {
		return p.hwnd
	}

	return ForegroundWindowOfProcess()
}

// SetCursor shows the cursor for kind, or clears it for cursor.None.
func (p *Platform) SetCursor(kind cursor.Kind) {
	SetCursor(LoadCursor(kind))
}

// SaveCursorState records the host's cursor display count, handle and
// position.
func (p *Platform) SaveCursorState() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// ShowCursor only reports the counter after changing it.
	count := ShowCursor(true) - 1
	ShowCursor(false)

	pos, _ := GetCursorPos()

	p.saved = cursorState{
		count:  count,
		pos:    pos,
		handle: GetCursor(),
		saved:  true,
	}

	p.log.Debug("Saved cursor state",
		slog.Int("count", int(count)),
		slog.Int("x", int(pos.X)),
		slog.Int("y", int(pos.Y)),
	)
}

// RestoreCursorState puts back what SaveCursorState recorded.
func (p *Platform) RestoreCursorState() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.saved.saved {
		return
	}

	count := ShowCursor(false)
	show := count < p.saved.count
	for count != p.saved.count {
		count = ShowCursor(show)
	}

	SetCursor(p.saved.handle)
	SetCursorPos(p.saved.pos.X, p.saved.pos.Y)

	p.log.Debug("Restored cursor state", slog.Int("count", int(count)))
}

// ReleasePressedKeys posts pass-through key-ups for every held key.
func (p *Platform) ReleasePressedKeys() {
	hwnd := p.window()
	if hwnd == 0 {
		return
	}

	n := ReleasePressedKeys(hwnd, p.log)
	p.log.Debug("Released pressed keys", slog.Int("keys", n))
}

func (p *Platform) ScanCode(virtualKey uint8) uint16 {
	return VirtualKeyToScanCode(virtualKey)
}

func (p *Platform) ScreenToClient(pt geom.Point) geom.Point {
	hwnd := p.window()
	if hwnd == 0 {
		return pt
	}

	c := ScreenToClient(hwnd, POINT{X: pt.X, Y: pt.Y})
	return geom.Point{X: c.X, Y: c.Y}
}

func (p *Platform) TranslateMessage(msg uint32, wParam, lParam uintptr) {
	if hwnd := p.window(); hwnd != 0 {
		TranslateMessage(hwnd, msg, wParam, lParam)
	}
}

// ClientArea returns the host's client rectangle.
func (p *Platform) ClientArea() (geom.Rect, bool) {
	hwnd := p.window()
	if hwnd == 0 {
		return geom.Rect{}, false
	}

	r, ok := GetClientRect(hwnd)
	if !ok {
		return geom.Rect{}, false
	}

	return geom.Rect{Width: uint32(r.Right - r.Left), Height: uint32(r.Bottom - r.Top)}, true
}
