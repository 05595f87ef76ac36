package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// SimulationConfig holds the tick loop settings plus where the game's data
// files and saves live
type SimulationConfig struct {
	Loop simulation.Config `mapstructure:",squash"`

	// TuningFile overrides the built-in tier, routine, template and event tables
	TuningFile string `mapstructure:"tuning_file"`

	// ScenarioFile seeds businesses and staff into a fresh game
	ScenarioFile string `mapstructure:"scenario_file"`

	// SnapshotDir holds compressed snapshot exports
	SnapshotDir string `mapstructure:"snapshot_dir"`

	// AutosaveInterval saves to the autosave slot while serving; zero disables
	AutosaveInterval time.Duration `mapstructure:"autosave_interval" validate:"min=0"`
}

// registerSimulationDefaults teaches viper the loop keys so that partial
// files and BIZSIM_SIMULATION_* variables merge with the defaults. Zero is a
// legal value for several of them (seed, start hour), so they cannot be
// filled in after unmarshalling.
func registerSimulationDefaults(v *viper.Viper) {
	d := simulation.DefaultConfig()
	defaults := map[string]interface{}{
		"seed":                           d.Seed,
		"start_day":                      d.StartDay,
		"start_hour":                     d.StartHour,
		"work_units_per_minute":          d.WorkUnitsPerMinute,
		"ticks_per_second":               d.TicksPerSecond,
		"routine_hour":                   d.RoutineHour,
		"open_hour":                      d.OpenHour,
		"close_hour":                     d.CloseHour,
		"base_customers_per_hour":        d.BaseCustomersPerHour,
		"average_ticket":                 d.AverageTicket,
		"auto_break_fatigue":             d.AutoBreakFatigue,
		"break_duration":                 d.BreakDuration,
		"queue.max_queue_size":           d.Queue.MaxQueueSize,
		"queue.default_deadline_minutes": d.Queue.DefaultDeadlineMinutes,
		"queue.history_limit":            d.Queue.HistoryLimit,
		"events.history_limit":           d.Events.HistoryLimit,
		"inventory.max_slots":            d.Inventory.MaxSlots,
		"inventory.warehouse_capacity":   d.Inventory.WarehouseCapacity,
		"inventory.delivery_hours":       d.Inventory.DeliveryHours,
		"inventory.delay_hours":          d.Inventory.DelayHours,
		"inventory.history_limit":        d.Inventory.HistoryLimit,
	}
	for key, value := range defaults {
		v.SetDefault("simulation."+key, value)
	}
}
