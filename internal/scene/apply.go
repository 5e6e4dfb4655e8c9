package scene

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/service"
)

// DefaultClientID is the client scenes are applied as.
const DefaultClientID = "scene"

// Applied maps the ids the compositor assigned back to scene names.
type Applied struct {
	Groups  map[uuid.UUID]string
	Windows map[uuid.UUID]string
}

// Name returns the scene name of a group or window id.
func (a *Applied) Name(id uuid.UUID) string {
	if a == nil {
		return id.String()
	}

	if n, ok := a.Windows[id]; ok {
		return n
	}

	if n, ok := a.Groups[id]; ok {
		return n
	}

	return id.String()
}

// Applier creates scenes through the service. Applying a scene first tears
// down whatever the previous one created.
type Applier struct {
	log           logger.LoggerInterface
	svc           *service.Service
	clientID      string
	defaultCursor cursor.Kind

	mu      sync.Mutex
	current *Applied
}

// NewApplier creates an Applier acting as clientID. An empty clientID
// selects DefaultClientID.
func NewApplier(log logger.LoggerInterface, svc *service.Service, clientID string, defaultCursor cursor.Kind) *Applier {
	if clientID == "" {
		clientID = DefaultClientID
	}

	return &Applier{
		log:           log.With(slog.String("component", "scene")),
		svc:           svc,
		clientID:      clientID,
		defaultCursor: defaultCursor,
	}
}

// ClientID is the client owning the applied scene.
func (a *Applier) ClientID() string {
	return a.clientID
}

// Current returns the mapping of the last applied scene, or nil.
func (a *Applier) Current() *Applied {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.current
}

// Apply replaces the current scene with s. On error the scene is left
// partially applied and the error names the failing element.
func (a *Applier) Apply(s *Scene) (*Applied, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := a.svc.DisconnectClient(a.clientID); n > 0 {
		a.log.Debug("Previous scene removed", slog.Int("groups", n))
	}

	applied := &Applied{
		Groups:  make(map[uuid.UUID]string),
		Windows: make(map[uuid.UUID]string),
	}
	a.current = applied

	windows := 0
	for i, g := range s.Groups {
		n, err := a.applyGroup(applied, g, i)
		if err != nil {
			return applied, err
		}

		windows += n
	}

	a.log.Info("Scene applied",
		slog.Int("groups", len(s.Groups)),
		slog.Int("windows", windows),
	)

	return applied, nil
}

func (a *Applier) applyGroup(applied *Applied, g Group, index int) (int, error) {
	name := g.label(index)

	attrs := service.GroupAttributes{
		Z:       g.Z,
		Opacity: opacityOr(g.Opacity, 1),
		Hidden:  g.Hidden,
	}

	if g.Buffer != nil {
		attrs.HasBuffer = true
		attrs.BufferColor = geom.Color(g.Buffer.Color).RGB()
		attrs.BufferOpacity = g.Buffer.Opacity
	}

	gid, err := a.svc.CreateWindowGroup(a.clientID, attrs)
	if err != nil {
		return 0, fmt.Errorf("group %s: %w", name, err)
	}

	applied.Groups[gid] = name

	var focus uuid.UUID
	for j, w := range g.Windows {
		wname := name + "/" + w.label(j)

		wid, err := a.applyWindow(gid, w)
		if err != nil {
			return j, fmt.Errorf("window %s: %w", wname, err)
		}

		applied.Windows[wid] = wname

		if w.Focused {
			focus = wid
		}
	}

	if focus != uuid.Nil {
		if err := a.svc.FocusWindowInGroup(a.clientID, gid[:], focus[:]); err != nil {
			return len(g.Windows), fmt.Errorf("group %s: %w", name, err)
		}
	}

	return len(g.Windows), nil
}

func (a *Applier) applyWindow(gid uuid.UUID, w Window) (uuid.UUID, error) {
	kind := a.defaultCursor
	if w.Cursor != "" {
		k, err := cursor.Parse(w.Cursor)
		if err != nil {
			return uuid.Nil, err
		}

		kind = k
	}

	wid, err := a.svc.CreateWindowInGroup(a.clientID, gid[:], w.Rect, service.WindowAttributes{
		Opacity: opacityOr(w.Opacity, 1),
		Hidden:  w.Hidden,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := a.svc.SetWindowCursor(a.clientID, gid[:], wid[:], kind); err != nil {
		return wid, err
	}

	alpha := uint8(0xFF)
	if w.Alpha != nil {
		alpha = *w.Alpha
	}

	buf := geom.FillBuffer(w.Rect, geom.Color(w.Fill), alpha)
	if err := a.svc.UpdateWindowBufferInGroup(a.clientID, gid[:], wid[:], buf); err != nil {
		return wid, err
	}

	return wid, nil
}

// Clear removes the current scene.
func (a *Applier) Clear() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.current = nil

	return a.svc.DisconnectClient(a.clientID)
}
