// Package events defines the events pushed to overlay clients and the hub
// that delivers them.
package events

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind selects which stream a subscription receives.
type Kind int

const (
	KindWindow Kind = iota + 1
	KindApplicationStats
)

func (k Kind) String() string {
	switch k {
	case KindWindow:
		return "window"
	case KindApplicationStats:
		return "application-stats"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k names a subscribable stream.
func (k Kind) Valid() bool {
	return k == KindWindow || k == KindApplicationStats
}

// KeyboardInputType is the phase of a keyboard event.
type KeyboardInputType int

const (
	KeyDown KeyboardInputType = iota
	Char
	KeyUp
)

func (t KeyboardInputType) String() string {
	switch t {
	case KeyDown:
		return "KEY_DOWN"
	case Char:
		return "CHAR"
	case KeyUp:
		return "KEY_UP"
	default:
		return fmt.Sprintf("KEYBOARD(%d)", int(t))
	}
}

// MouseInputType is the kind of a mouse event.
type MouseInputType int

const (
	Move MouseInputType = iota
	ButtonDown
	ButtonUp
	DoubleClick
	VerticalWheel
	HorizontalWheel
)

func (t MouseInputType) String() string {
	switch t {
	case Move:
		return "MOVE"
	case ButtonDown:
		return "BUTTON_DOWN"
	case ButtonUp:
		return "BUTTON_UP"
	case DoubleClick:
		return "DOUBLE_CLICK"
	case VerticalWheel:
		return "V_WHEEL"
	case HorizontalWheel:
		return "H_WHEEL"
	default:
		return fmt.Sprintf("MOUSE(%d)", int(t))
	}
}

// MouseButton identifies the button of a button event.
type MouseButton int

const (
	NoButton MouseButton = iota
	Left
	Middle
	Right
	X1
	X2
)

func (b MouseButton) String() string {
	switch b {
	case NoButton:
		return "NONE"
	case Left:
		return "LEFT"
	case Middle:
		return "MIDDLE"
	case Right:
		return "RIGHT"
	case X1:
		return "X1"
	case X2:
		return "X2"
	default:
		return fmt.Sprintf("BUTTON(%d)", int(b))
	}
}

// Payload is one of KeyboardInputEvent, MouseInputEvent, FocusEvent or
// BlurEvent.
type Payload interface {
	windowPayload()
}

// KeyboardInputEvent carries a virtual key code (KEY_DOWN, KEY_UP) or a
// UTF-16 code unit (CHAR).
type KeyboardInputEvent struct {
	Type KeyboardInputType
	Code uint32
}

// MouseInputEvent carries window-local coordinates.
type MouseInputEvent struct {
	Type       MouseInputType
	X          int32
	Y          int32
	Button     MouseButton
	WheelDelta int16
}

// FocusEvent tells a window it became the keyboard target.
type FocusEvent struct{}

// BlurEvent tells a window it lost keyboard focus.
type BlurEvent struct{}

func (KeyboardInputEvent) windowPayload() {}
func (MouseInputEvent) windowPayload()    {}
func (FocusEvent) windowPayload()         {}
func (BlurEvent) windowPayload()          {}

func (e KeyboardInputEvent) String() string {
	return fmt.Sprintf("%s code=%d", e.Type, e.Code)
}

func (e MouseInputEvent) String() string {
	switch e.Type {
	case VerticalWheel, HorizontalWheel:
		return fmt.Sprintf("%s (%d,%d) delta=%d", e.Type, e.X, e.Y, e.WheelDelta)
	case ButtonDown, ButtonUp, DoubleClick:
		return fmt.Sprintf("%s (%d,%d) %s", e.Type, e.X, e.Y, e.Button)
	default:
		return fmt.Sprintf("%s (%d,%d)", e.Type, e.X, e.Y)
	}
}

func (FocusEvent) String() string { return "FOCUS" }
func (BlurEvent) String() string  { return "BLUR" }

// WindowEvent addresses a payload to one client window.
type WindowEvent struct {
	GroupID  uuid.UUID
	WindowID uuid.UUID
	Payload  Payload
}

// ApplicationStatsEvent reports the host's render performance.
type ApplicationStatsEvent struct {
	FrameTime float64 // milliseconds
	FPS       float64
}

// Event is what a subscriber receives. Exactly one of Window or Stats is set,
// according to Kind.
type Event struct {
	Kind   Kind
	Window *WindowEvent
	Stats  *ApplicationStatsEvent
}
