package common_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
)

type pingCommand struct{ Value int }

type pingHandler struct{ calls int }

func (h *pingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	h.calls++
	cmd := request.(*pingCommand)
	if cmd.Value < 0 {
		return nil, errors.New("negative ping")
	}
	return cmd.Value * 2, nil
}

func TestMediator_DispatchesByRequestType(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	handler := &pingHandler{}
	require.NoError(t, common.RegisterHandler[*pingCommand](m, handler))

	// Act
	resp, err := m.Send(context.Background(), &pingCommand{Value: 21})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
	assert.Equal(t, 1, handler.calls)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, &pingHandler{}))

	assert.Error(t, common.RegisterHandler[*pingCommand](m, &pingHandler{}))
	assert.Error(t, common.RegisterHandler[*pingCommand](m, nil))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)
	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, &pingHandler{}))
	var trace []string
	wrap := func(name string) common.Middleware {
		return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			trace = append(trace, name+" in")
			resp, err := next(ctx, request)
			trace = append(trace, name+" out")
			return resp, err
		}
	}
	m.Use(wrap("outer"))
	m.Use(wrap("inner"))

	// Act
	_, err := m.Send(context.Background(), &pingCommand{Value: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer in", "inner in", "inner out", "outer out"}, trace)
}

type capturingLogger struct{ messages []string }

func (l *capturingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.messages = append(l.messages, level+" "+message)
}

func TestLoggingMiddleware_LogsFailures(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, &pingHandler{}))
	m.Use(common.LoggingMiddleware(0))
	logger := &capturingLogger{}
	ctx := common.WithLogger(context.Background(), logger)

	// Act
	_, okErr := m.Send(ctx, &pingCommand{Value: 1})
	_, failErr := m.Send(ctx, &pingCommand{Value: -1})

	// Assert
	assert.NoError(t, okErr)
	assert.Error(t, failErr)
	assert.Equal(t, []string{"WARNING [Mediator] Request failed"}, logger.messages)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingCommand", common.RequestName(&pingCommand{}))
	assert.Equal(t, "pingCommand", common.RequestName(pingCommand{}))
	assert.Equal(t, "<nil>", common.RequestName(nil))
}

func TestLoggerFromContext_FallsBackToNop(t *testing.T) {
	logger := common.LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	logger.Log("INFO", "ignored", nil)
}
