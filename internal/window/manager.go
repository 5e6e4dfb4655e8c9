// Package window owns the overlay's window groups and windows. It derives the
// z-ordered sprite list drawn every frame and the hit-rect list used to route
// input, and tracks the focused and hovered windows.
//
// Locks are taken in this order: compose, group map, group, window. The
// derived caches and the focus state are leaves. No lock is held while
// calling UpdateWindows or a collaborator.
package window

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// Hit is an entry of the hit-rect list.
type Hit struct {
	ID   ID
	Rect geom.Rect
}

// Layer names the window behind each sprite of the composited list.
type Layer struct {
	ID     ID
	Buffer bool
}

// Options are the collaborators of a Manager.
type Options struct {
	Input    interfaces.InputController
	Events   interfaces.EventSink
	Textures graphics.TextureReleaser
	Log      logger.LoggerInterface
}

// Manager is the compositor. All methods are safe for concurrent use.
type Manager struct {
	log      logger.LoggerInterface
	input    interfaces.InputController
	events   interfaces.EventSink
	textures graphics.TextureReleaser

	seq atomic.Uint64

	composeMu sync.Mutex

	// policyMu is held from reading the block-input state or hovered cursor
	// until it has been pushed to the input layer, so pushes land in order.
	policyMu sync.Mutex

	mu     sync.RWMutex
	groups map[GroupID]*Group

	spritesMu sync.Mutex
	sprites   []*graphics.Sprite
	layers    []Layer

	rectsMu sync.Mutex
	rects   []Hit

	stateMu sync.Mutex
	focused ID
	hovered ID
}

// NewManager creates an empty compositor.
func NewManager(opts Options) *Manager {
	log := opts.Log
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Manager{
		log:      log.With(slog.String("component", "window")),
		input:    opts.Input,
		events:   opts.Events,
		textures: opts.Textures,
		groups:   make(map[GroupID]*Group),
	}
}

func (m *Manager) nextSeq() uint64 {
	return m.seq.Add(1)
}

// withGroup runs fn with the group locked. It reports false if the group is
// unknown or was destroyed.
func (m *Manager) withGroup(id GroupID, fn func(g *Group)) bool {
	m.mu.RLock()
	g, ok := m.groups[id]
	m.mu.RUnlock()

	if !ok {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return false
	}

	fn(g)

	return true
}

// findWindow resolves id to its window without holding any lock on return.
func (m *Manager) findWindow(id ID) *Window {
	if id.IsEmpty() {
		return nil
	}

	var w *Window
	m.withGroup(id.Group(), func(g *Group) {
		w = g.windows[id.ID]
	})

	return w
}

// CreateWindowGroup registers a new group for clientID. It returns the empty
// id if attrs are out of range.
func (m *Manager) CreateWindowGroup(clientID string, attrs GroupAttributes) GroupID {
	if !attrs.Valid() {
		m.log.Debug("Rejected window group attributes", slog.String("client", clientID))
		return GroupID{}
	}

	id := GroupID{ID: uuid.New(), ClientID: clientID}
	g := newGroup(id, m.nextSeq(), attrs)

	if attrs.HasBuffer {
		g.buffer = m.newBuffer(id, attrs)
	}

	m.mu.Lock()
	m.groups[id] = g
	m.mu.Unlock()

	m.log.Debug("Window group created",
		slog.String("group", id.String()),
		slog.Int("z", int(attrs.Z)),
		slog.Bool("buffer", attrs.HasBuffer),
	)

	if attrs.HasBuffer {
		m.UpdateWindows()
	} else {
		m.refreshBlockAppInput()
	}

	return id
}

func (m *Manager) newBuffer(id GroupID, attrs GroupAttributes) *Window {
	wid := ID{ID: uuid.New(), GroupID: id.ID, ClientID: id.ClientID}
	return newBufferWindow(wid, m.nextSeq(), attrs.BufferColor, attrs.BufferOpacity, attrs.Opacity)
}

// UpdateWindowGroupAttributes replaces a group's attributes. Opacity changes
// are applied to the group's sprites in place; z, visibility and buffer
// changes recompose.
func (m *Manager) UpdateWindowGroupAttributes(id GroupID, attrs GroupAttributes) bool {
	if !attrs.Valid() {
		return false
	}

	var recompose bool
	var retired *Window

	ok := m.withGroup(id, func(g *Group) {
		old := g.attrs
		g.attrs = attrs

		recompose = old.Z != attrs.Z || old.Hidden != attrs.Hidden || old.HasBuffer != attrs.HasBuffer

		switch {
		case attrs.HasBuffer && g.buffer == nil:
			g.buffer = m.newBuffer(id, attrs)
		case !attrs.HasBuffer && g.buffer != nil:
			retired = g.buffer
			g.buffer = nil
		case g.buffer != nil:
			if old.BufferOpacity != attrs.BufferOpacity {
				g.buffer.setAttributes(Attributes{Opacity: attrs.BufferOpacity})
			}

			g.buffer.sprite.SetColor(attrs.BufferColor, m.textures)
		}

		if old.Opacity != attrs.Opacity {
			for _, w := range g.all() {
				w.setGroupOpacity(attrs.Opacity)
			}
		}
	})
	if !ok {
		return false
	}

	if retired != nil {
		retired.sprite.Release(m.textures)
	}

	m.log.Debug("Window group updated",
		slog.String("group", id.String()),
		slog.Bool("recompose", recompose),
	)

	if recompose {
		m.UpdateWindows()
	} else {
		m.refreshBlockAppInput()
	}

	return true
}

// LookupWindowGroup returns the attributes of a group.
func (m *Manager) LookupWindowGroup(id GroupID) (GroupAttributes, bool) {
	var attrs GroupAttributes
	ok := m.withGroup(id, func(g *Group) {
		attrs = g.attrs
	})

	return attrs, ok
}

// DestroyWindowGroup removes a group with all of its windows.
func (m *Manager) DestroyWindowGroup(id GroupID) bool {
	if !m.removeGroup(id) {
		return false
	}

	m.log.Debug("Window group destroyed", slog.String("group", id.String()))
	m.UpdateWindows()

	return true
}

// DestroyClientWindowGroups removes every group owned by clientID and
// returns how many were removed.
func (m *Manager) DestroyClientWindowGroups(clientID string) int {
	m.mu.RLock()
	var ids []GroupID
	for id := range m.groups {
		if id.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, id := range ids {
		if m.removeGroup(id) {
			n++
		}
	}

	if n > 0 {
		m.log.Debug("Client window groups destroyed",
			slog.String("client", clientID),
			slog.Int("groups", n),
		)
		m.UpdateWindows()
	}

	return n
}

func (m *Manager) removeGroup(id GroupID) bool {
	m.mu.Lock()
	g, ok := m.groups[id]
	delete(m.groups, id)
	m.mu.Unlock()

	if !ok {
		return false
	}

	g.mu.Lock()
	g.destroyed = true
	windows := g.all()
	g.buffer = nil
	g.windows = make(map[uuid.UUID]*Window)
	g.focused = uuid.Nil
	g.mu.Unlock()

	for _, w := range windows {
		w.sprite.Release(m.textures)
	}

	return true
}

// CreateWindowInGroup adds a window to a group. The first visible window of
// a group becomes its focused window. It returns the empty id if the group is
// unknown or attrs are out of range.
func (m *Manager) CreateWindowInGroup(groupID GroupID, rect geom.Rect, attrs Attributes) ID {
	if !attrs.Valid() {
		return ID{}
	}

	id := ID{ID: uuid.New(), GroupID: groupID.ID, ClientID: groupID.ClientID}

	ok := m.withGroup(groupID, func(g *Group) {
		g.windows[id.ID] = newWindow(id, m.nextSeq(), rect, attrs, g.attrs.Opacity)

		if !attrs.Hidden && g.focused == uuid.Nil {
			g.focused = id.ID
		}
	})
	if !ok {
		return ID{}
	}

	m.log.Debug("Window created",
		slog.String("window", id.String()),
		slog.String("rect", rect.String()),
	)
	m.UpdateWindows()

	return id
}

// UpdateWindowAttributes replaces a window's attributes. Hiding a window
// clears its group's focus; showing it makes it the group's focused window.
func (m *Manager) UpdateWindowAttributes(id ID, attrs Attributes) bool {
	if !attrs.Valid() || id.IsEmpty() {
		return false
	}

	found := false
	hiddenChanged := false

	m.withGroup(id.Group(), func(g *Group) {
		w, ok := g.windows[id.ID]
		if !ok {
			return
		}

		found = true
		hiddenChanged = w.setAttributes(attrs)

		if !hiddenChanged {
			return
		}

		if attrs.Hidden {
			if g.focused == id.ID {
				g.focused = uuid.Nil
			}
		} else {
			g.focused = id.ID
		}
	})
	if !found {
		return false
	}

	if hiddenChanged {
		m.UpdateWindows()
	}

	return true
}

// SetWindowRect moves or resizes a window. A size change drops its texture.
func (m *Manager) SetWindowRect(id ID, rect geom.Rect) bool {
	w := m.findWindow(id)
	if w == nil {
		return false
	}

	w.setRect(rect, m.textures)
	m.UpdateWindows()

	return true
}

// SetWindowCursor sets the cursor shown while the window is hovered.
func (m *Manager) SetWindowCursor(id ID, kind cursor.Kind) bool {
	if !kind.Valid() {
		return false
	}

	w := m.findWindow(id)
	if w == nil {
		return false
	}

	w.setCursor(kind)

	if m.input != nil {
		m.policyMu.Lock()
		if m.HoveredWindowID() == id {
			m.input.SetBlockAppInputCursor(kind)
		}
		m.policyMu.Unlock()
	}

	return true
}

// FocusWindowInGroup makes a visible window the focused window of its group.
func (m *Manager) FocusWindowInGroup(id ID) bool {
	if id.IsEmpty() {
		return false
	}

	focused := false
	m.withGroup(id.Group(), func(g *Group) {
		w, ok := g.windows[id.ID]
		if !ok || w.hidden() {
			return
		}

		g.focused = id.ID
		focused = true
	})
	if !focused {
		return false
	}

	m.UpdateWindows()

	return true
}

// UpdateWindowBufferInGroup replaces a window's pixels. buf must hold
// width*height*4 bytes and is owned by the window afterwards.
func (m *Manager) UpdateWindowBufferInGroup(id ID, buf []byte) bool {
	w := m.findWindow(id)
	if w == nil {
		return false
	}

	return w.setBuffer(buf)
}

// DestroyWindowInGroup removes a window from its group.
func (m *Manager) DestroyWindowInGroup(id ID) bool {
	if id.IsEmpty() {
		return false
	}

	var w *Window
	m.withGroup(id.Group(), func(g *Group) {
		w = g.windows[id.ID]
		delete(g.windows, id.ID)

		if g.focused == id.ID {
			g.focused = uuid.Nil
		}
	})
	if w == nil {
		return false
	}

	w.sprite.Release(m.textures)

	m.log.Debug("Window destroyed", slog.String("window", id.String()))
	m.UpdateWindows()

	return true
}

// LookupWindow returns a copy of a window's state.
func (m *Manager) LookupWindow(id ID) (Info, bool) {
	w := m.findWindow(id)
	if w == nil {
		return Info{}, false
	}

	return w.info(), true
}

// InvalidateTextures drops every texture so each is recreated on the next
// render. Used after a device reset.
func (m *Manager) InvalidateTextures() {
	m.mu.RLock()
	groups := make([]*Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	m.mu.RUnlock()

	for _, g := range groups {
		g.mu.Lock()
		windows := g.all()
		g.mu.Unlock()

		for _, w := range windows {
			w.sprite.FreeTexture(m.textures)
		}
	}
}

// Sprites returns the composited sprite list, bottom first. The slice is
// shared and must not be modified.
func (m *Manager) Sprites() []*graphics.Sprite {
	m.spritesMu.Lock()
	defer m.spritesMu.Unlock()

	return m.sprites
}

// Layers returns the windows behind Sprites, in the same order.
func (m *Manager) Layers() []Layer {
	m.spritesMu.Lock()
	defer m.spritesMu.Unlock()

	return m.layers
}

// WindowRects returns the hit-rect list, bottom first. The slice is shared
// and must not be modified.
func (m *Manager) WindowRects() []Hit {
	m.rectsMu.Lock()
	defer m.rectsMu.Unlock()

	return m.rects
}

// FocusedWindowID returns the globally focused window, or the empty id.
func (m *Manager) FocusedWindowID() ID {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.focused
}

// HoveredWindowID returns the window under the cursor, or the empty id.
func (m *Manager) HoveredWindowID() ID {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.hovered
}

func (m *Manager) sendWindowEvent(id ID, payload events.Payload) {
	if m.events == nil {
		return
	}

	m.events.SendEventToClient(id.ClientID, events.WindowEvent{
		GroupID:  id.GroupID,
		WindowID: id.ID,
		Payload:  payload,
	})
}
