package testutil

import (
	"sync"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// MockInputController records block-input and cursor updates
type MockInputController struct {
	mu          sync.Mutex
	BlockCalls  []bool
	CursorCalls []cursor.Kind
	Blocking    bool
	Cursor      cursor.Kind

	gateEntered chan<- struct{}
	gateRelease <-chan struct{}
}

func NewMockInputController() *MockInputController {
	return &MockInputController{
		BlockCalls:  []bool{},
		CursorCalls: []cursor.Kind{},
		Cursor:      cursor.Default,
	}
}

func (m *MockInputController) SetBlockAppInput(block bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BlockCalls = append(m.BlockCalls, block)
	m.Blocking = block
}

func (m *MockInputController) SetBlockAppInputCursor(kind cursor.Kind) {
	m.mu.Lock()
	entered, release := m.gateEntered, m.gateRelease
	m.gateEntered, m.gateRelease = nil, nil
	m.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.CursorCalls = append(m.CursorCalls, kind)
	m.Cursor = kind
}

// WithCursorGate pauses the next SetBlockAppInputCursor call: it closes
// entered and waits for release before recording the cursor.
func (m *MockInputController) WithCursorGate(entered chan<- struct{}, release <-chan struct{}) *MockInputController {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gateEntered, m.gateRelease = entered, release
	return m
}

// State returns the last block flag and cursor
func (m *MockInputController) State() (bool, cursor.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Blocking, m.Cursor
}

// MockPlatform records OS side effects requested by the input manager
type MockPlatform struct {
	mu           sync.Mutex
	Cursors      []cursor.Kind
	Saved        int
	Restored     int
	KeysReleased int
	Translated   []uint32
	ScanCodes    map[uint8]uint16
	ClientOffset geom.Point
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		Cursors:   []cursor.Kind{},
		ScanCodes: make(map[uint8]uint16),
	}
}

func (m *MockPlatform) SetCursor(kind cursor.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Cursors = append(m.Cursors, kind)
}

func (m *MockPlatform) SaveCursorState() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Saved++
}

func (m *MockPlatform) RestoreCursorState() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Restored++
}

func (m *MockPlatform) ReleasePressedKeys() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.KeysReleased++
}

func (m *MockPlatform) ScanCode(virtualKey uint8) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ScanCodes[virtualKey]
}

func (m *MockPlatform) ScreenToClient(pt geom.Point) geom.Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	return geom.Point{X: pt.X - m.ClientOffset.X, Y: pt.Y - m.ClientOffset.Y}
}

func (m *MockPlatform) TranslateMessage(msg uint32, wParam, lParam uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Translated = append(m.Translated, msg)
}

// Helper methods for fluent configuration
func (m *MockPlatform) WithScanCode(virtualKey uint8, scanCode uint16) *MockPlatform {
	m.ScanCodes[virtualKey] = scanCode
	return m
}

func (m *MockPlatform) WithClientOffset(x, y int32) *MockPlatform {
	m.ClientOffset = geom.Point{X: x, Y: y}
	return m
}

// LastCursor returns the most recently applied cursor, or cursor.None
func (m *MockPlatform) LastCursor() cursor.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Cursors) == 0 {
		return cursor.None
	}

	return m.Cursors[len(m.Cursors)-1]
}

// MockWindowRouter records routed input
type MockWindowRouter struct {
	mu          sync.Mutex
	MouseEvents []RoutedMouseEvent
	Focused     []events.Payload
}

type RoutedMouseEvent struct {
	Event events.MouseInputEvent
	Point geom.Point
}

func NewMockWindowRouter() *MockWindowRouter {
	return &MockWindowRouter{
		MouseEvents: []RoutedMouseEvent{},
		Focused:     []events.Payload{},
	}
}

func (m *MockWindowRouter) HandleMouseEvent(ev events.MouseInputEvent, pt geom.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MouseEvents = append(m.MouseEvents, RoutedMouseEvent{Event: ev, Point: pt})
}

func (m *MockWindowRouter) SendWindowEventToFocusedWindow(payload events.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Focused = append(m.Focused, payload)
}
