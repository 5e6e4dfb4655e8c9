package window

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Norgate-AV/overlayd/internal/geom"
)

// GroupAttributes are shared by every window of a group.
type GroupAttributes struct {
	Z             int32
	Opacity       float64
	Hidden        bool
	HasBuffer     bool
	BufferColor   geom.Color
	BufferOpacity float64
}

// Valid reports whether both opacities are within [0,1].
func (a GroupAttributes) Valid() bool {
	return validOpacity(a.Opacity) && validOpacity(a.BufferOpacity)
}

// Group is a client namespace of windows. The focused field names the window
// drawn last within the group; uuid.Nil means none.
type Group struct {
	id  GroupID
	seq uint64

	mu        sync.Mutex
	attrs     GroupAttributes
	buffer    *Window
	windows   map[uuid.UUID]*Window
	focused   uuid.UUID
	destroyed bool
}

func newGroup(id GroupID, seq uint64, attrs GroupAttributes) *Group {
	return &Group{
		id:      id,
		seq:     seq,
		attrs:   attrs,
		windows: make(map[uuid.UUID]*Window),
	}
}

// orderedWindows returns the group's windows in creation order with the
// focused one moved to the end. The caller holds g.mu.
func (g *Group) orderedWindows() []*Window {
	run := make([]*Window, 0, len(g.windows))
	for _, w := range g.windows {
		run = append(run, w)
	}

	slices.SortFunc(run, func(a, b *Window) int {
		return cmp.Compare(a.seq, b.seq)
	})

	if g.focused == uuid.Nil {
		return run
	}

	for i, w := range run {
		if w.id.ID == g.focused {
			run = append(run[:i], run[i+1:]...)
			run = append(run, w)

			break
		}
	}

	return run
}

// all returns every window including the buffer window. The caller holds g.mu.
func (g *Group) all() []*Window {
	out := make([]*Window, 0, len(g.windows)+1)
	if g.buffer != nil {
		out = append(out, g.buffer)
	}

	for _, w := range g.windows {
		out = append(out, w)
	}

	return out
}
