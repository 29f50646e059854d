package handler

import (
	"context"
	"sync"
)

// MockGateway is a mock implementation of Gateway for testing
type MockGateway struct {
	SendFunc func(msg OutboundMessage) DispatchResult
	Calls    []OutboundMessage
	mu       sync.Mutex
}

// Send implements the Gateway interface
func (m *MockGateway) Send(_ context.Context, msg OutboundMessage) DispatchResult {
	m.mu.Lock()
	m.Calls = append(m.Calls, msg)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(msg)
	}
	return DispatchResult{Success: true, StatusCode: 200}
}

// CallCount returns the number of times Send was called
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// GetCall returns the call at the specified index
func (m *MockGateway) GetCall(index int) OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[index]
}

// CallTo reports whether some call was addressed to the given recipient.
// Dispatch is concurrent, so call order is not deterministic.
func (m *MockGateway) CallTo(to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Calls {
		if c.To == to {
			return true
		}
	}
	return false
}
