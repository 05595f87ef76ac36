package common_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

type memorySink struct {
	mu       sync.Mutex
	messages []string
}

func (s *memorySink) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, runID+":"+message)
	return nil
}

type failingSink struct{}

func (failingSink) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	return errors.New("database is locked")
}

func TestSimulationLogger_PrintsAndKeepsEntries(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	clock := shared.NewMockClock(time.Time{})
	logger := common.NewSimulationLogger("run-1", clock, common.LoggerOptions{Out: &out})

	// Act
	logger.Log(shared.LevelInfo, "[Dispatch] Task added", map[string]interface{}{"task_id": "task-1", "priority": "HIGH"})

	// Assert
	assert.Equal(t, "[2024-01-01T00:00:00Z] [run-1] INFO: [Dispatch] Task added priority=HIGH task_id=task-1\n", out.String())
	entries := logger.Entries(0, "")
	require.Len(t, entries, 1)
	assert.Equal(t, "run-1", entries[0].Scope)
}

func TestSimulationLogger_LevelFilterAndRing(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	logger := common.NewSimulationLogger("run-1", nil, common.LoggerOptions{Out: &out, Level: "WARNING", Capacity: 2})

	// Act
	logger.Log(shared.LevelInfo, "dropped", nil)
	logger.Log(shared.LevelWarning, "first", nil)
	logger.Log(shared.LevelError, "second", nil)
	logger.Log(shared.LevelWarning, "third", nil)

	// Assert
	entries := logger.Entries(0, "")
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "third", entries[1].Message)

	warnings := logger.Entries(0, shared.LevelWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "third", warnings[0].Message)

	assert.Len(t, logger.Entries(1, ""), 1)
	assert.NotContains(t, out.String(), "dropped")
}

func TestSimulationLogger_PersistsToSink(t *testing.T) {
	// Arrange
	sink := &memorySink{}
	logger := common.NewSimulationLogger("run-7", nil, common.LoggerOptions{Out: &bytes.Buffer{}, Sink: sink})

	// Act
	logger.Log(shared.LevelInfo, "hello", nil)
	logger.Log(shared.LevelInfo, "world", nil)
	logger.Flush()

	// Assert
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.ElementsMatch(t, []string{"run-7:hello", "run-7:world"}, sink.messages)
}

func TestSimulationLogger_SinkFailuresShareTheWriter(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	logger := common.NewSimulationLogger("run-3", nil, common.LoggerOptions{Out: &out, Sink: failingSink{}})

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(shared.LevelInfo, "tick", nil)
			}
		}()
	}
	wg.Wait()
	logger.Flush()

	// Assert
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 200)
	failures := 0
	for _, line := range lines {
		if strings.Contains(line, "Failed to persist log: database is locked") {
			failures++
		}
	}
	assert.Equal(t, 100, failures)
}
