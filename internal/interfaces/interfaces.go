// Package interfaces defines core interfaces for dependency injection and testing.
package interfaces

import (
	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// InputController is the part of the input layer the compositor drives.
type InputController interface {
	SetBlockAppInput(block bool)
	SetBlockAppInputCursor(kind cursor.Kind)
}

// EventSink pushes window events to the client owning the target window.
type EventSink interface {
	SendEventToClient(clientID string, ev events.WindowEvent)
}

// StatsSink receives the periodic application stats.
type StatsSink interface {
	Broadcast(ev events.ApplicationStatsEvent)
}

// WindowRouter receives input the input layer decided to route to overlay
// windows instead of the host.
type WindowRouter interface {
	HandleMouseEvent(ev events.MouseInputEvent, pt geom.Point)
	SendWindowEventToFocusedWindow(payload events.Payload)
}

// Platform performs the OS side effects of blocking host input.
type Platform interface {
	// SetCursor shows kind, or hides the cursor for cursor.None.
	SetCursor(kind cursor.Kind)
	SaveCursorState()
	RestoreCursorState()
	// ReleasePressedKeys tells the host that every held key went up, so it
	// does not see stuck keys while input is blocked. The synthetic key-up
	// messages carry the pass-through lParam.
	ReleasePressedKeys()
	// ScanCode maps a virtual key to its scan code, extended flag included.
	ScanCode(virtualKey uint8) uint16
	ScreenToClient(pt geom.Point) geom.Point
	// TranslateMessage queues the character messages for a key-down.
	TranslateMessage(msg uint32, wParam, lParam uintptr)
}
