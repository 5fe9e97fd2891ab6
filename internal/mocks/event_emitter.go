package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskdeck/internal/events"
)

// MockEventEmitter records emitted events for later inspection.
type MockEventEmitter struct {
	// Err is returned from every EmitEvent call when set
	Err error

	mu     sync.Mutex
	events []*events.TaskEvent
}

// EmitEvent implements events.EventEmitter.
func (m *MockEventEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns a copy of the recorded events.
func (m *MockEventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the type of every recorded event in order.
func (m *MockEventEmitter) Types() []string {
	recorded := m.Events()
	types := make([]string, 0, len(recorded))
	for _, e := range recorded {
		types = append(types, e.Type)
	}
	return types
}
