package config

import (
	"time"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
)

// SetDefaults fills every unset field
func SetDefaults(cfg *Config) {
	// Database
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "bizsim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "bizsim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "bizsim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	setSimulationDefaults(&cfg.Simulation)

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.Buffer == 0 {
		cfg.Logging.Buffer = 1000
	}

	// Metrics
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "bizsim"
	}

	// Server
	if cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = "localhost:50061"
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8088"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
}

// setSimulationDefaults handles a config that never went through viper, where
// the whole loop section is zero, and fills the fields for which zero is
// never meaningful
func setSimulationDefaults(s *SimulationConfig) {
	d := simulation.DefaultConfig()
	if s.Loop.WorkUnitsPerMinute == 0 && s.Loop.TicksPerSecond == 0 && s.Loop.CloseHour == 0 {
		events := s.Loop.Events
		s.Loop = d
		if len(events.RollTable) > 0 {
			s.Loop.Events.RollTable = events.RollTable
		}
	}
	if s.Loop.StartDay == 0 {
		s.Loop.StartDay = d.StartDay
	}
	if s.Loop.WorkUnitsPerMinute == 0 {
		s.Loop.WorkUnitsPerMinute = d.WorkUnitsPerMinute
	}
	if s.Loop.TicksPerSecond == 0 {
		s.Loop.TicksPerSecond = d.TicksPerSecond
	}
	if s.Loop.Queue == (dispatch.Config{}) {
		s.Loop.Queue = d.Queue
	}
	if s.Loop.Events.HistoryLimit == 0 {
		s.Loop.Events.HistoryLimit = d.Events.HistoryLimit
	}
	if len(s.Loop.Events.RollTable) == 0 {
		s.Loop.Events.RollTable = d.Events.RollTable
	}
	if s.SnapshotDir == "" {
		s.SnapshotDir = "snapshots"
	}
}
