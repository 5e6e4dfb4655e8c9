package testutil

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/graphics"
)

// MockEventSink records every event pushed to a client
type MockEventSink struct {
	mu     sync.Mutex
	Events []SentEvent
}

type SentEvent struct {
	ClientID string
	Event    events.WindowEvent
}

func NewMockEventSink() *MockEventSink {
	return &MockEventSink{Events: []SentEvent{}}
}

func (m *MockEventSink) SendEventToClient(clientID string, ev events.WindowEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, SentEvent{ClientID: clientID, Event: ev})
}

// ForWindow returns the payloads delivered to one window, in order
func (m *MockEventSink) ForWindow(windowID uuid.UUID) []events.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []events.Payload
	for _, e := range m.Events {
		if e.Event.WindowID == windowID {
			out = append(out, e.Event.Payload)
		}
	}

	return out
}

// Reset forgets recorded events
func (m *MockEventSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = []SentEvent{}
}

// MockStatsSink records broadcast application stats
type MockStatsSink struct {
	mu    sync.Mutex
	Stats []events.ApplicationStatsEvent
}

func NewMockStatsSink() *MockStatsSink {
	return &MockStatsSink{Stats: []events.ApplicationStatsEvent{}}
}

func (m *MockStatsSink) Broadcast(ev events.ApplicationStatsEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stats = append(m.Stats, ev)
}

// Count returns how many stats events were broadcast
func (m *MockStatsSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Stats)
}

// Last returns the most recent stats event
func (m *MockStatsSink) Last() (events.ApplicationStatsEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Stats) == 0 {
		return events.ApplicationStatsEvent{}, false
	}

	return m.Stats[len(m.Stats)-1], true
}

// MockRenderer implements graphics.Renderer and records what it was asked to do
type MockRenderer struct {
	graphics.TextureQueue

	mu          sync.Mutex
	InitResult  bool
	InitCalls   int
	Frames      [][]*graphics.Sprite
	ResizeCalls []ResizeCall
	Released    []graphics.Texture
}

type ResizeCall struct {
	Width      uint32
	Height     uint32
	Fullscreen bool
}

func NewMockRenderer() *MockRenderer {
	return &MockRenderer{
		InitResult:  true,
		Frames:      [][]*graphics.Sprite{},
		ResizeCalls: []ResizeCall{},
	}
}

func (m *MockRenderer) Init() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitCalls++
	return m.InitResult
}

func (m *MockRenderer) RenderSprites(sprites []*graphics.Sprite) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReleaseTextures(func(tex graphics.Texture) {
		m.Released = append(m.Released, tex)
	})
	m.Frames = append(m.Frames, sprites)
}

func (m *MockRenderer) OnResize(width, height uint32, fullscreen bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResizeCalls = append(m.ResizeCalls, ResizeCall{width, height, fullscreen})
}

// Helper methods for fluent configuration
func (m *MockRenderer) WithInitResult(result bool) *MockRenderer {
	m.InitResult = result
	return m
}
