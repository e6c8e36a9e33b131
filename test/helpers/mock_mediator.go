package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/factorysim/internal/application/mediator"
	"github.com/andrescamacho/factorysim/internal/application/simulation/commands"
	"github.com/andrescamacho/factorysim/internal/application/simulation/queries"
)

// MockMediator is a test double for the Mediator interface.
// By default it answers AdvanceTime and GetStatus with empty responses and
// reports nothing eligible, so a driver over it idles.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request mediator.Request) (mediator.Response, error)
	callLog  []string // Track which requests were sent
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		callLog: []string{},
	}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, fmt.Sprintf("%T", request))
	fn := m.sendFunc
	m.mu.Unlock()

	// Use custom function if provided
	if fn != nil {
		return fn(ctx, request)
	}

	switch request.(type) {
	case *commands.AdvanceTimeCommand:
		return &commands.AdvanceTimeResponse{}, nil
	case *queries.GetStatusQuery:
		return &queries.GetStatusResponse{}, nil
	case *queries.ListOperationsQuery:
		return &queries.ListOperationsResponse{}, nil
	default:
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
}

// Register is a no-op
func (m *MockMediator) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	return nil
}

// RegisterMiddleware is a no-op
func (m *MockMediator) RegisterMiddleware(middleware mediator.Middleware) {}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request mediator.Request) (mediator.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetCallLog returns the request types sent, in order
func (m *MockMediator) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// ClearCallLog clears the call log
func (m *MockMediator) ClearCallLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLog = []string{}
}
