package window

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/graphics"
)

type groupOrder struct {
	g   *Group
	z   int32
	seq uint64
}

// UpdateWindows recomposes the window list. Visible groups are ordered by z,
// ties by creation. Each group contributes its buffer window, then its
// windows with the focused one last. Hidden windows are dropped afterwards
// and the topmost remaining window becomes the global focus.
func (m *Manager) UpdateWindows() {
	m.composeMu.Lock()
	defer m.composeMu.Unlock()

	m.mu.RLock()
	order := make([]groupOrder, 0, len(m.groups))
	for _, g := range m.groups {
		order = append(order, groupOrder{g: g, seq: g.seq})
	}
	m.mu.RUnlock()

	visible := order[:0]
	for _, o := range order {
		o.g.mu.Lock()
		hidden := o.g.attrs.Hidden || o.g.destroyed
		o.z = o.g.attrs.Z
		o.g.mu.Unlock()

		if !hidden {
			visible = append(visible, o)
		}
	}

	slices.SortStableFunc(visible, func(a, b groupOrder) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}

		return cmp.Compare(a.seq, b.seq)
	})

	var ordered []*Window
	for _, o := range visible {
		o.g.mu.Lock()
		if o.g.buffer != nil {
			ordered = append(ordered, o.g.buffer)
		}
		ordered = append(ordered, o.g.orderedWindows()...)
		o.g.mu.Unlock()
	}

	sprites := make([]*graphics.Sprite, 0, len(ordered))
	layers := make([]Layer, 0, len(ordered))
	rects := make([]Hit, 0, len(ordered))

	for _, w := range ordered {
		rect, hidden := w.composite()
		if hidden {
			continue
		}

		sprites = append(sprites, w.sprite)
		layers = append(layers, Layer{ID: w.id, Buffer: w.buffer})

		if !w.buffer {
			rects = append(rects, Hit{ID: w.id, Rect: rect})
		}
	}

	m.spritesMu.Lock()
	m.sprites = sprites
	m.layers = layers
	m.spritesMu.Unlock()

	m.rectsMu.Lock()
	m.rects = rects
	m.rectsMu.Unlock()

	var top ID
	if len(rects) > 0 {
		top = rects[len(rects)-1].ID
	}

	m.setFocused(top)
	m.dropStaleHover(rects)

	m.log.Trace("Windows composed",
		slog.Int("groups", len(visible)),
		slog.Int("sprites", len(sprites)),
		slog.String("focused", top.String()),
	)

	m.refreshBlockAppInput()
}

func (m *Manager) setFocused(id ID) {
	m.stateMu.Lock()
	old := m.focused
	m.focused = id
	m.stateMu.Unlock()

	if old == id {
		return
	}

	m.log.Debug("Focus changed",
		slog.String("from", old.String()),
		slog.String("to", id.String()),
	)

	if !old.IsEmpty() {
		m.sendWindowEvent(old, events.BlurEvent{})
	}

	if !id.IsEmpty() {
		m.sendWindowEvent(id, events.FocusEvent{})
	}
}

// dropStaleHover clears the hovered window once it is no longer composited.
func (m *Manager) dropStaleHover(rects []Hit) {
	hovered := m.HoveredWindowID()
	if hovered.IsEmpty() {
		return
	}

	for _, h := range rects {
		if h.ID == hovered {
			return
		}
	}

	m.SetHoveredWindow(ID{})
}

// BlockAppInput reports whether any visible group has a buffer window.
func (m *Manager) BlockAppInput() bool {
	m.mu.RLock()
	groups := make([]*Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	m.mu.RUnlock()

	for _, g := range groups {
		g.mu.Lock()
		modal := !g.attrs.Hidden && g.attrs.HasBuffer && !g.destroyed
		g.mu.Unlock()

		if modal {
			return true
		}
	}

	return false
}

// refreshBlockAppInput pushes the block-input state and the hovered cursor to
// the input layer.
func (m *Manager) refreshBlockAppInput() {
	if m.input == nil {
		return
	}

	m.policyMu.Lock()
	defer m.policyMu.Unlock()

	block := m.BlockAppInput()

	m.input.SetBlockAppInputCursor(m.hoveredCursor())
	m.input.SetBlockAppInput(block)
}

func (m *Manager) hoveredCursor() cursor.Kind {
	hovered := m.HoveredWindowID()
	if w := m.findWindow(hovered); w != nil {
		return w.getCursor()
	}

	return cursor.Default
}
