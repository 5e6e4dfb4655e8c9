package input

import (
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// Window messages the input layer inspects.
const (
	WMNull          uint32 = 0x0000
	WMSize          uint32 = 0x0005
	WMSetCursor     uint32 = 0x0020
	WMInput         uint32 = 0x00FF
	WMKeyDown       uint32 = 0x0100
	WMKeyUp         uint32 = 0x0101
	WMChar          uint32 = 0x0102
	WMSysKeyDown    uint32 = 0x0104
	WMSysKeyUp      uint32 = 0x0105
	WMSysChar       uint32 = 0x0106
	WMMouseMove     uint32 = 0x0200
	WMLButtonDown   uint32 = 0x0201
	WMLButtonUp     uint32 = 0x0202
	WMLButtonDblClk uint32 = 0x0203
	WMRButtonDown   uint32 = 0x0204
	WMRButtonUp     uint32 = 0x0205
	WMRButtonDblClk uint32 = 0x0206
	WMMButtonDown   uint32 = 0x0207
	WMMButtonUp     uint32 = 0x0208
	WMMButtonDblClk uint32 = 0x0209
	WMMouseWheel    uint32 = 0x020A
	WMXButtonDown   uint32 = 0x020B
	WMXButtonUp     uint32 = 0x020C
	WMXButtonDblClk uint32 = 0x020D
	WMMouseHWheel   uint32 = 0x020E
	WMEnterSizeMove uint32 = 0x0231
	WMExitSizeMove  uint32 = 0x0232

	wmKeyFirst   = WMKeyDown
	wmKeyLast    = uint32(0x0109)
	wmMouseFirst = WMMouseMove
	wmMouseLast  = WMMouseHWheel

	// HTClient is the WM_SETCURSOR hit-test code of the client area.
	HTClient = 1

	xButton1 = 1
)

// KeyUpPassthroughLParam marks synthetic key-up messages posted while input
// gets blocked. They always reach the host.
const KeyUpPassthroughLParam uintptr = 0xA1B3C5D7

// Message is a queued window message. HandleMessage rewrites it in place.
type Message struct {
	Msg    uint32
	WParam uintptr
	LParam uintptr
}

func isKeyboard(msg uint32) bool {
	return msg >= wmKeyFirst && msg <= wmKeyLast
}

func isMouse(msg uint32) bool {
	return msg >= wmMouseFirst && msg <= wmMouseLast
}

func loword(v uintptr) uint16 {
	return uint16(v & 0xFFFF)
}

func hiword(v uintptr) uint16 {
	return uint16((v >> 16) & 0xFFFF)
}

// pointFromLParam unpacks the signed client coordinates of a mouse message.
func pointFromLParam(lParam uintptr) geom.Point {
	return geom.Point{
		X: int32(int16(loword(lParam))),
		Y: int32(int16(hiword(lParam))),
	}
}

// KeyboardEvent translates a keyboard message. ok is false for messages that
// carry no routed payload, such as dead chars.
func KeyboardEvent(msg uint32, wParam uintptr) (events.KeyboardInputEvent, bool) {
	ev := events.KeyboardInputEvent{Code: uint32(wParam)}

	switch msg {
	case WMKeyDown, WMSysKeyDown:
		ev.Type = events.KeyDown
	case WMChar, WMSysChar:
		ev.Type = events.Char
	case WMKeyUp, WMSysKeyUp:
		ev.Type = events.KeyUp
	default:
		return events.KeyboardInputEvent{}, false
	}

	return ev, true
}

// MouseEvent translates a mouse message. Coordinates are left for the router
// to fill in.
func MouseEvent(msg uint32, wParam uintptr) (events.MouseInputEvent, bool) {
	var ev events.MouseInputEvent

	switch msg {
	case WMMouseMove:
		ev.Type = events.Move
	case WMLButtonDown, WMMButtonDown, WMRButtonDown, WMXButtonDown:
		ev.Type = events.ButtonDown
	case WMLButtonUp, WMMButtonUp, WMRButtonUp, WMXButtonUp:
		ev.Type = events.ButtonUp
	case WMLButtonDblClk, WMMButtonDblClk, WMRButtonDblClk, WMXButtonDblClk:
		ev.Type = events.DoubleClick
	case WMMouseWheel:
		ev.Type = events.VerticalWheel
		ev.WheelDelta = int16(hiword(wParam))
	case WMMouseHWheel:
		ev.Type = events.HorizontalWheel
		ev.WheelDelta = int16(hiword(wParam))
	default:
		return events.MouseInputEvent{}, false
	}

	switch msg {
	case WMLButtonDown, WMLButtonUp, WMLButtonDblClk:
		ev.Button = events.Left
	case WMMButtonDown, WMMButtonUp, WMMButtonDblClk:
		ev.Button = events.Middle
	case WMRButtonDown, WMRButtonUp, WMRButtonDblClk:
		ev.Button = events.Right
	case WMXButtonDown, WMXButtonUp, WMXButtonDblClk:
		if hiword(wParam) == xButton1 {
			ev.Button = events.X1
		} else {
			ev.Button = events.X2
		}
	}

	return ev, true
}

// keyUpLParam builds the lParam of a genuine key-up for a virtual key.
func keyUpLParam(scanCode uint16) uintptr {
	return uintptr(1)<<31 | uintptr(1)<<30 | uintptr(scanCode)<<16 | 1
}

// MakeLParam packs signed client coordinates the way mouse messages carry
// them.
func MakeLParam(x, y int32) uintptr {
	return uintptr(uint16(int16(x))) | uintptr(uint16(int16(y)))<<16
}

// MakeWParam packs two words.
func MakeWParam(lo, hi uint16) uintptr {
	return uintptr(lo) | uintptr(hi)<<16
}
