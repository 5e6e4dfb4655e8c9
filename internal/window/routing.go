package window

import (
	"log/slog"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// HandleMouseEvent routes a mouse event at screen point pt. Windows are
// hit-tested top down and the first window containing pt ends the walk. The
// focused window also receives MOVE and BUTTON_UP outside its rect so a drag
// can finish, and a BUTTON_UP is never delivered to an unfocused window.
// Coordinates are made window-local before delivery.
func (m *Manager) HandleMouseEvent(ev events.MouseInputEvent, pt geom.Point) {
	rects := m.WindowRects()
	focused := m.FocusedWindowID()

	for i := len(rects) - 1; i >= 0; i-- {
		hit := rects[i]
		inside := hit.Rect.Contains(pt)
		isFocused := !focused.IsEmpty() && hit.ID == focused

		if !inside && !isFocused {
			continue
		}

		deliver := true
		switch {
		case !inside && ev.Type != events.Move && ev.Type != events.ButtonUp:
			deliver = false
		case inside && !isFocused && ev.Type == events.ButtonUp:
			deliver = false
		}

		if deliver {
			if ev.Type == events.ButtonDown {
				m.FocusWindowInGroup(hit.ID)
			}

			local := hit.Rect.Local(pt)
			out := ev
			out.X, out.Y = local.X, local.Y

			m.log.Trace("Mouse event routed",
				slog.String("window", hit.ID.String()),
				slog.String("event", out.String()),
			)
			m.sendWindowEvent(hit.ID, out)
		}

		if inside {
			if ev.Type == events.Move {
				m.SetHoveredWindow(hit.ID)
			}

			return
		}
	}

	if ev.Type == events.Move {
		m.SetHoveredWindow(ID{})
	}
}

// SendWindowEventToFocusedWindow delivers payload to the focused window, if
// any. A nil payload is a programming error.
func (m *Manager) SendWindowEventToFocusedWindow(payload events.Payload) {
	if payload == nil {
		panic("window: nil payload for focused window")
	}

	focused := m.FocusedWindowID()
	if focused.IsEmpty() {
		return
	}

	m.sendWindowEvent(focused, payload)
}

// SetHoveredWindow records the window under the cursor and pushes its cursor
// to the input layer. The empty id selects the default cursor.
func (m *Manager) SetHoveredWindow(id ID) {
	m.stateMu.Lock()
	if m.hovered == id {
		m.stateMu.Unlock()
		return
	}
	m.hovered = id
	m.stateMu.Unlock()

	m.log.Trace("Hover changed", slog.String("window", id.String()))

	if m.input != nil {
		m.policyMu.Lock()
		m.input.SetBlockAppInputCursor(m.hoveredCursor())
		m.policyMu.Unlock()
	}
}
