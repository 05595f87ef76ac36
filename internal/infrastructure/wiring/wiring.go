// Package wiring assembles a simulation and its mediator from configuration.
// The CLI and the server binary share it so both see the same game.
package wiring

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
)

// SlowRequestThreshold is when the logging middleware starts warning
const SlowRequestThreshold = 250 * time.Millisecond

// NewLogger opens the configured output and returns a logger writing to it.
// close releases a log file; it is a no-op for stdout and stderr.
func NewLogger(cfg config.LoggingConfig, scope string, sink common.LogSink) (*common.SimulationLogger, func() error, error) {
	out, closeOut, err := openOutput(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := common.NewSimulationLogger(scope, nil, common.LoggerOptions{
		Out:      out,
		Level:    cfg.Level,
		Capacity: cfg.Buffer,
		Sink:     sink,
	})
	closeFn := func() error {
		logger.Flush()
		return closeOut()
	}
	return logger, closeFn, nil
}

func openOutput(cfg config.LoggingConfig) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Output {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.file_path is required when output is file")
		}
		if dir := filepath.Dir(cfg.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, f.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}
}

// NewSimulation builds a simulation from the loop settings and the tuning
// file. The tuning roll table replaces the configured one when present.
func NewSimulation(cfg config.SimulationConfig, logger common.Logger, opts ...simulation.Option) (*simulation.Simulation, error) {
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}
	loop := cfg.Loop
	tuning.Apply(&loop)
	return simulation.New(loop, tuning.Tables, logger, opts...), nil
}

// Seed applies the scenario file to a fresh simulation. An empty path seeds
// nothing.
func Seed(sim *simulation.Simulation, scenarioPath string) error {
	if scenarioPath == "" {
		return nil
	}
	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	if err := sim.ApplyScenario(scenario); err != nil {
		return fmt.Errorf("failed to apply scenario %s: %w", scenarioPath, err)
	}
	return nil
}

// NewMediator registers every simulation command and query. The logging
// middleware runs outermost, then any extra middleware in order.
func NewMediator(sim *simulation.Simulation, store common.SnapshotStore, middleware ...common.Middleware) (common.Mediator, error) {
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware(SlowRequestThreshold))
	for _, mw := range middleware {
		if mw != nil {
			m.Use(mw)
		}
	}
	if err := commands.Register(m, sim, store); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	if err := queries.Register(m, sim); err != nil {
		return nil, fmt.Errorf("failed to register queries: %w", err)
	}
	return m, nil
}
