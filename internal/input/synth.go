package input

import (
	"sync"
	"time"
	"unicode/utf16"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// DoubleClickTime is the longest gap between two presses of a button that
// still counts as a double click.
const DoubleClickTime = 500 * time.Millisecond

// doubleClickSlop is how far, in pixels, the second press may land from the
// first.
const doubleClickSlop = 4

type lastPress struct {
	at time.Time
	pt geom.Point
}

// Synthesizer turns device-level input into the window messages a Win32
// host would queue, and feeds them through a Manager. Hosts without a
// message queue, such as the preview window, drive input this way.
type Synthesizer struct {
	manager *Manager
	now     func() time.Time

	mu       sync.Mutex
	pos      geom.Point
	hasPos   bool
	presses  map[events.MouseButton]lastPress
	consumed int
}

// NewSynthesizer creates a Synthesizer feeding m.
func NewSynthesizer(m *Manager) *Synthesizer {
	return &Synthesizer{
		manager: m,
		now:     time.Now,
		presses: make(map[events.MouseButton]lastPress),
	}
}

// WithClock replaces the time source used for double-click detection.
func (s *Synthesizer) WithClock(now func() time.Time) *Synthesizer {
	s.now = now
	return s
}

func (s *Synthesizer) send(msg uint32, wParam, lParam uintptr) bool {
	m := &Message{Msg: msg, WParam: wParam, LParam: lParam}
	if !s.manager.HandleMessage(m) {
		return false
	}

	s.mu.Lock()
	s.consumed++
	s.mu.Unlock()

	return true
}

// Consumed returns how many synthesized messages the overlay swallowed.
func (s *Synthesizer) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.consumed
}

// Resize reports a new client size, as WM_SIZE does.
func (s *Synthesizer) Resize(width, height int) {
	s.manager.HandleWindowProc(WMSize, 0, MakeLParam(int32(width), int32(height)))
}

// SetCursor asks the overlay to set the cursor for the client area, as
// WM_SETCURSOR does. It reports false when the host should set its own.
func (s *Synthesizer) SetCursor() bool {
	return s.manager.HandleWindowProc(WMSetCursor, 0, MakeLParam(HTClient, int32(WMMouseMove)))
}

// MouseMove reports the pointer position. Repeated positions are dropped.
func (s *Synthesizer) MouseMove(pt geom.Point) bool {
	s.mu.Lock()
	if s.hasPos && s.pos == pt {
		s.mu.Unlock()
		return false
	}
	s.pos, s.hasPos = pt, true
	s.mu.Unlock()

	return s.send(WMMouseMove, 0, MakeLParam(pt.X, pt.Y))
}

// MouseButton reports a press or release. A second press close in time and
// space becomes a double click.
func (s *Synthesizer) MouseButton(button events.MouseButton, down bool, pt geom.Point) bool {
	var msg uint32
	var wParam uintptr

	switch button {
	case events.Left:
		msg = pick(down, WMLButtonDown, WMLButtonUp)
	case events.Right:
		msg = pick(down, WMRButtonDown, WMRButtonUp)
	case events.Middle:
		msg = pick(down, WMMButtonDown, WMMButtonUp)
	case events.X1, events.X2:
		msg = pick(down, WMXButtonDown, WMXButtonUp)
		wParam = MakeWParam(0, uint16(button-events.X1)+xButton1)
	default:
		return false
	}

	if down && s.isDoubleClick(button, pt) {
		msg = doubleClick[msg]
	}

	return s.send(msg, wParam, MakeLParam(pt.X, pt.Y))
}

var doubleClick = map[uint32]uint32{
	WMLButtonDown: WMLButtonDblClk,
	WMRButtonDown: WMRButtonDblClk,
	WMMButtonDown: WMMButtonDblClk,
	WMXButtonDown: WMXButtonDblClk,
}

func pick(down bool, downMsg, upMsg uint32) uint32 {
	if down {
		return downMsg
	}

	return upMsg
}

func (s *Synthesizer) isDoubleClick(button events.MouseButton, pt geom.Point) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.presses[button]
	if ok && now.Sub(prev.at) <= DoubleClickTime && near(prev.pt, pt) {
		delete(s.presses, button)
		return true
	}

	s.presses[button] = lastPress{at: now, pt: pt}

	return false
}

func near(a, b geom.Point) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -doubleClickSlop && dx <= doubleClickSlop && dy >= -doubleClickSlop && dy <= doubleClickSlop
}

// Wheel reports a wheel rotation in multiples of 120 per notch. pt is in
// client coordinates and goes through the platform's ScreenToClient like a
// real wheel message.
func (s *Synthesizer) Wheel(vertical bool, delta int16, pt geom.Point) bool {
	msg := WMMouseHWheel
	if vertical {
		msg = WMMouseWheel
	}

	return s.send(msg, MakeWParam(0, uint16(delta)), MakeLParam(pt.X, pt.Y))
}

// Key reports a key transition for a virtual key. sys selects the
// WM_SYSKEY* messages sent while Alt is held.
func (s *Synthesizer) Key(virtualKey uint8, down, sys bool) bool {
	var msg uint32

	switch {
	case down && sys:
		msg = WMSysKeyDown
	case down:
		msg = WMKeyDown
	case sys:
		msg = WMSysKeyUp
	default:
		msg = WMKeyUp
	}

	var lParam uintptr = 1
	if !down {
		lParam = keyUpLParam(s.manager.platform.ScanCode(virtualKey))
	}

	return s.send(msg, uintptr(virtualKey), lParam)
}

// Char reports typed text, one WM_CHAR per UTF-16 code unit.
func (s *Synthesizer) Char(r rune) bool {
	consumed := false
	for _, unit := range utf16.Encode([]rune{r}) {
		if s.send(WMChar, uintptr(unit), 1) {
			consumed = true
		}
	}

	return consumed
}
