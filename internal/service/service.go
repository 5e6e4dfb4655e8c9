// Package service is the client-scoped API above the compositor. Every call
// is made on behalf of an authenticated client, validated here, and only
// then handed to the window manager.
package service

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/window"
)

// GroupAttributes is the wire form of a group's attributes. BufferColor is a
// 24-bit 0xRRGGBB value.
type GroupAttributes struct {
	Z             int32
	Opacity       float64
	Hidden        bool
	HasBuffer     bool
	BufferColor   uint32
	BufferOpacity float64
}

// WindowAttributes is the wire form of a window's attributes.
type WindowAttributes struct {
	Opacity float64
	Hidden  bool
}

// Service validates client requests and applies them to the compositor.
type Service struct {
	log     logger.LoggerInterface
	windows *window.Manager
	hub     *events.Hub
}

// New creates a Service.
func New(log logger.LoggerInterface, windows *window.Manager, hub *events.Hub) *Service {
	return &Service{
		log:     log.With(slog.String("component", "service")),
		windows: windows,
		hub:     hub,
	}
}

func checkClient(clientID string) error {
	if clientID == "" {
		return fmt.Errorf("%w: missing client id", ErrPermissionDenied)
	}

	return nil
}

func checkOpacity(name string, o float64) error {
	if math.IsNaN(o) || o < 0 || o > 1 {
		return fmt.Errorf("%w: %s %v not in [0,1]", ErrInvalidArgument, name, o)
	}

	return nil
}

func (a GroupAttributes) toWindow() (window.GroupAttributes, error) {
	if err := checkOpacity("opacity", a.Opacity); err != nil {
		return window.GroupAttributes{}, err
	}

	if err := checkOpacity("buffer opacity", a.BufferOpacity); err != nil {
		return window.GroupAttributes{}, err
	}

	if a.BufferColor > geom.MaxRGB {
		return window.GroupAttributes{}, fmt.Errorf("%w: buffer color %#x exceeds 24 bits", ErrInvalidArgument, a.BufferColor)
	}

	return window.GroupAttributes{
		Z:             a.Z,
		Opacity:       a.Opacity,
		Hidden:        a.Hidden,
		HasBuffer:     a.HasBuffer,
		BufferColor:   geom.ColorFromRGB(a.BufferColor),
		BufferOpacity: a.BufferOpacity,
	}, nil
}

func (a WindowAttributes) toWindow() (window.Attributes, error) {
	if err := checkOpacity("opacity", a.Opacity); err != nil {
		return window.Attributes{}, err
	}

	return window.Attributes{Opacity: a.Opacity, Hidden: a.Hidden}, nil
}

func checkRect(rect geom.Rect) error {
	if rect.Empty() {
		return fmt.Errorf("%w: rect %s has no area", ErrInvalidArgument, rect)
	}

	return nil
}

// ParseID decodes a raw 16-byte GUID.
func ParseID(raw []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: nil id", ErrInvalidArgument)
	}

	return id, nil
}

func (s *Service) groupID(clientID string, rawGroup []byte) (window.GroupID, error) {
	if err := checkClient(clientID); err != nil {
		return window.GroupID{}, err
	}

	id, err := ParseID(rawGroup)
	if err != nil {
		return window.GroupID{}, fmt.Errorf("group id: %w", err)
	}

	return window.GroupID{ID: id, ClientID: clientID}, nil
}

func (s *Service) windowID(clientID string, rawGroup, rawWindow []byte) (window.ID, error) {
	gid, err := s.groupID(clientID, rawGroup)
	if err != nil {
		return window.ID{}, err
	}

	wid, err := ParseID(rawWindow)
	if err != nil {
		return window.ID{}, fmt.Errorf("window id: %w", err)
	}

	return window.ID{ID: wid, GroupID: gid.ID, ClientID: clientID}, nil
}

func notFound(what string, id fmt.Stringer) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

// CreateWindowGroup creates a group owned by clientID.
func (s *Service) CreateWindowGroup(clientID string, attrs GroupAttributes) (uuid.UUID, error) {
	if err := checkClient(clientID); err != nil {
		return uuid.Nil, err
	}

	wa, err := attrs.toWindow()
	if err != nil {
		return uuid.Nil, err
	}

	id := s.windows.CreateWindowGroup(clientID, wa)
	if id.IsEmpty() {
		return uuid.Nil, fmt.Errorf("%w: group attributes rejected", ErrInvalidArgument)
	}

	return id.ID, nil
}

// UpdateWindowGroupAttributes replaces a group's attributes.
func (s *Service) UpdateWindowGroupAttributes(clientID string, groupID []byte, attrs GroupAttributes) error {
	gid, err := s.groupID(clientID, groupID)
	if err != nil {
		return err
	}

	wa, err := attrs.toWindow()
	if err != nil {
		return err
	}

	if !s.windows.UpdateWindowGroupAttributes(gid, wa) {
		return notFound("group", gid)
	}

	return nil
}

// DestroyWindowGroup removes a group and its windows.
func (s *Service) DestroyWindowGroup(clientID string, groupID []byte) error {
	gid, err := s.groupID(clientID, groupID)
	if err != nil {
		return err
	}

	if !s.windows.DestroyWindowGroup(gid) {
		return notFound("group", gid)
	}

	return nil
}

// CreateWindowInGroup creates a window in one of the client's groups.
func (s *Service) CreateWindowInGroup(clientID string, groupID []byte, rect geom.Rect, attrs WindowAttributes) (uuid.UUID, error) {
	gid, err := s.groupID(clientID, groupID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := checkRect(rect); err != nil {
		return uuid.Nil, err
	}

	wa, err := attrs.toWindow()
	if err != nil {
		return uuid.Nil, err
	}

	id := s.windows.CreateWindowInGroup(gid, rect, wa)
	if id.IsEmpty() {
		return uuid.Nil, notFound("group", gid)
	}

	return id.ID, nil
}

// UpdateWindowAttributes replaces a window's attributes.
func (s *Service) UpdateWindowAttributes(clientID string, groupID, windowID []byte, attrs WindowAttributes) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	wa, err := attrs.toWindow()
	if err != nil {
		return err
	}

	if !s.windows.UpdateWindowAttributes(id, wa) {
		return notFound("window", id)
	}

	return nil
}

// SetWindowRect moves or resizes a window.
func (s *Service) SetWindowRect(clientID string, groupID, windowID []byte, rect geom.Rect) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	if err := checkRect(rect); err != nil {
		return err
	}

	if !s.windows.SetWindowRect(id, rect) {
		return notFound("window", id)
	}

	return nil
}

// SetWindowCursor sets the cursor shown over a window.
func (s *Service) SetWindowCursor(clientID string, groupID, windowID []byte, kind cursor.Kind) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	if !kind.Valid() {
		return fmt.Errorf("%w: unknown cursor %s", ErrInvalidArgument, kind)
	}

	if !s.windows.SetWindowCursor(id, kind) {
		return notFound("window", id)
	}

	return nil
}

// FocusWindowInGroup focuses a visible window within its group.
func (s *Service) FocusWindowInGroup(clientID string, groupID, windowID []byte) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	if _, ok := s.windows.LookupWindow(id); !ok {
		return notFound("window", id)
	}

	if !s.windows.FocusWindowInGroup(id) {
		return fmt.Errorf("%w: window %s is hidden", ErrInvalidArgument, id)
	}

	return nil
}

// UpdateWindowBufferInGroup replaces a window's pixels. buf must hold
// width*height*4 bytes and must not be modified afterwards.
func (s *Service) UpdateWindowBufferInGroup(clientID string, groupID, windowID []byte, buf []byte) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	info, ok := s.windows.LookupWindow(id)
	if !ok {
		return notFound("window", id)
	}

	if want := info.Rect.BufferSize(); len(buf) != want {
		return fmt.Errorf("%w: buffer is %d bytes, want %d", ErrInvalidArgument, len(buf), want)
	}

	if !s.windows.UpdateWindowBufferInGroup(id, buf) {
		// Resized or destroyed since the lookup.
		return fmt.Errorf("%w: buffer no longer matches window %s", ErrInvalidArgument, id)
	}

	return nil
}

// DestroyWindowInGroup removes a window.
func (s *Service) DestroyWindowInGroup(clientID string, groupID, windowID []byte) error {
	id, err := s.windowID(clientID, groupID, windowID)
	if err != nil {
		return err
	}

	if !s.windows.DestroyWindowInGroup(id) {
		return notFound("window", id)
	}

	return nil
}

// Subscribe opens an event stream of kind for clientID.
func (s *Service) Subscribe(clientID string, kind events.Kind) (<-chan events.Event, func(), error) {
	if err := checkClient(clientID); err != nil {
		return nil, nil, err
	}

	if !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown event kind %d", ErrInvalidArgument, int(kind))
	}

	ch, cancel := s.hub.Subscribe(clientID, kind)

	return ch, cancel, nil
}

// DisconnectClient tears down everything clientID owns and returns the number
// of groups destroyed.
func (s *Service) DisconnectClient(clientID string) int {
	n := s.windows.DestroyClientWindowGroups(clientID)
	s.hub.RemoveClient(clientID)

	s.log.Info("Client disconnected",
		slog.String("client", clientID),
		slog.Int("groups", n),
	)

	return n
}
