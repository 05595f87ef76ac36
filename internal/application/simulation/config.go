package simulation

import (
	"github.com/andrescamacho/bizsim-go/internal/domain/dispatch"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// Config holds the tick loop settings
type Config struct {
	Seed      int64 `mapstructure:"seed"`
	StartDay  int   `mapstructure:"start_day" validate:"min=1"`
	StartHour int   `mapstructure:"start_hour" validate:"min=0,max=23"`

	// WorkUnitsPerMinute is the elapsed value fed to every worker per tick
	WorkUnitsPerMinute float64 `mapstructure:"work_units_per_minute" validate:"gt=0"`
	TicksPerSecond     float64 `mapstructure:"ticks_per_second" validate:"gt=0"`

	RoutineHour int `mapstructure:"routine_hour" validate:"min=0,max=23"`
	OpenHour    int `mapstructure:"open_hour" validate:"min=0,max=23"`
	CloseHour   int `mapstructure:"close_hour" validate:"min=0,max=23"`

	BaseCustomersPerHour float64 `mapstructure:"base_customers_per_hour" validate:"min=0"`
	AverageTicket        float64 `mapstructure:"average_ticket" validate:"min=0"`

	// AutoBreakFatigue sends workers on a break once reached; zero disables
	AutoBreakFatigue float64 `mapstructure:"auto_break_fatigue" validate:"min=0,max=100"`
	BreakDuration    float64 `mapstructure:"break_duration" validate:"min=0"`

	Queue     dispatch.Config   `mapstructure:"queue"`
	Events    operations.Config `mapstructure:"events"`
	Inventory inventory.Config  `mapstructure:"inventory"`
}

// DefaultConfig returns a day that starts at 08:00 with shops open 08-22
func DefaultConfig() Config {
	return Config{
		Seed:                 1,
		StartDay:             1,
		StartHour:            8,
		WorkUnitsPerMinute:   1,
		TicksPerSecond:       10,
		RoutineHour:          6,
		OpenHour:             8,
		CloseHour:            22,
		BaseCustomersPerHour: 4,
		AverageTicket:        25,
		AutoBreakFatigue:     85,
		BreakDuration:        30,
		Queue:                dispatch.DefaultConfig(),
		Events:               operations.DefaultConfig(),
		Inventory:            inventory.DefaultConfig(),
	}
}

// Tuning carries the data tables a simulation is built from
type Tuning struct {
	Tiers     reputation.TierTables
	Routines  Routines
	Templates []staff.Template
	Products  Catalogue
	Missions  []mission.Definition
}

// DefaultTuning returns the built-in tables
func DefaultTuning() Tuning {
	return Tuning{
		Tiers:     reputation.DefaultTierTables(),
		Routines:  DefaultRoutines(),
		Templates: DefaultTemplates(),
		Products:  DefaultCatalogue(),
		Missions:  mission.DefaultCatalogue(),
	}
}

// Scenario seeds a fresh game
type Scenario struct {
	Businesses []ScenarioBusiness `yaml:"businesses"`
}

type ScenarioBusiness struct {
	Name     string              `yaml:"name"`
	Type     shared.BusinessType `yaml:"type"`
	Cash     float64             `yaml:"starting_cash"`
	Hires    []ScenarioHire      `yaml:"hires"`
	Missions []string            `yaml:"missions"`
}

type ScenarioHire struct {
	Template string          `yaml:"template"`
	Count    int             `yaml:"count"`
	Shift    staff.ShiftType `yaml:"shift"`
}
