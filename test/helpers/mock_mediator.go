package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
)

// MockMediator records every request and answers from a scripted function.
// Adapters (CLI, gRPC) are tested against it without a simulation behind.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	callLog  []string
	requests []common.Request
}

func NewMockMediator() *MockMediator {
	return &MockMediator{}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, common.RequestName(request))
	m.requests = append(m.requests, request)
	fn := m.sendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	return nil, fmt.Errorf("unsupported request type: %T", request)
}

func (m *MockMediator) Register(_ reflect.Type, _ common.RequestHandler) error {
	return nil
}

func (m *MockMediator) Use(_ common.Middleware) {}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// CallLog returns the request type names in the order they were sent
func (m *MockMediator) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.callLog...)
}

// LastRequest returns the most recent request, nil when none was sent
func (m *MockMediator) LastRequest() common.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
