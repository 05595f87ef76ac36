package wiring

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
)

func configsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "configs")
}

func TestNewLogger_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "logs", "bizsim.log")
	cfg := config.LoggingConfig{Level: "info", Output: "file", FilePath: path, Buffer: 10}

	// Act
	logger, closeFn, err := NewLogger(cfg, "test", nil)
	require.NoError(t, err)
	logger.Log("DEBUG", "hidden", nil)
	logger.Log("INFO", "[Test] Hello", map[string]interface{}{"n": 1})
	require.NoError(t, closeFn())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test] INFO: [Test] Hello")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLogger_FileOutputNeedsPath(t *testing.T) {
	_, _, err := NewLogger(config.LoggingConfig{Level: "info", Output: "file"}, "test", nil)

	assert.Error(t, err)
}

func TestNewSimulation_SeedAndMediator(t *testing.T) {
	// Arrange
	dir := configsDir(t)
	cfg := config.Default().Simulation
	cfg.TuningFile = filepath.Join(dir, "tuning.yaml")
	logger, closeFn, err := NewLogger(config.LoggingConfig{Level: "warning", Output: "stdout", Buffer: 10}, "test", nil)
	require.NoError(t, err)
	defer closeFn()

	// Act
	sim, err := NewSimulation(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, Seed(sim, filepath.Join(dir, "scenario.yaml")))
	m, err := NewMediator(sim, persistence.NewFileSnapshotStore(t.TempDir(), nil))
	require.NoError(t, err)
	resp, err := m.Send(context.Background(), &queries.GetDashboardQuery{})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &commands.SaveSnapshotCommand{})

	// Assert
	require.NoError(t, err)
	dashboard := resp.(*queries.GetDashboardResponse).Dashboard
	require.Len(t, dashboard.Businesses, 2)
	assert.Equal(t, "Corner Hypermarket", dashboard.Businesses[0].Name)
	assert.Len(t, dashboard.Roster, 6)
}

func TestSeed_EmptyPathSeedsNothing(t *testing.T) {
	sim, err := NewSimulation(config.Default().Simulation, nil)
	require.NoError(t, err)

	require.NoError(t, Seed(sim, ""))

	assert.Empty(t, sim.Directory().Businesses())
}

func TestNewSimulation_BadTuningFile(t *testing.T) {
	cfg := config.Default().Simulation
	cfg.TuningFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewSimulation(cfg, nil)

	assert.Error(t, err)
}
