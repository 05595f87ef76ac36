package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// TuningFile is the on-disk layout of the game data tables. A section left
// out keeps its built-in default.
type TuningFile struct {
	Tiers     map[string]reputation.TierTable     `yaml:"tiers"`
	Routines  map[string][]simulation.RoutineTask `yaml:"routines"`
	Templates []staff.Template                    `yaml:"templates"`
	RollTable []operations.RollEntry              `yaml:"roll_table"`
	Products  map[string][]inventory.Item         `yaml:"products"`
	Missions  []mission.Definition                `yaml:"missions"`
}

// Tuning is a parsed tuning file merged over the defaults
type Tuning struct {
	Tables simulation.Tuning

	// RollTable is nil when the file does not override the daily rolls
	RollTable []operations.RollEntry
}

// LoadTuning reads a tuning file. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return Tuning{Tables: simulation.DefaultTuning()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	return TuningFromYAML(data)
}

// TuningFromYAML parses and validates tuning tables from raw YAML bytes
func TuningFromYAML(data []byte) (Tuning, error) {
	var file TuningFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning yaml: %w", err)
	}

	tuning := Tuning{Tables: simulation.DefaultTuning()}

	if len(file.Tiers) > 0 {
		tiers := make(reputation.TierTables, len(file.Tiers))
		for name, table := range file.Tiers {
			bt, err := shared.ParseBusinessType(name)
			if err != nil {
				return Tuning{}, fmt.Errorf("tiers: %w", err)
			}
			if err := validateTierTable(bt, table); err != nil {
				return Tuning{}, err
			}
			tiers[bt] = table.Sorted()
		}
		for bt, table := range tuning.Tables.Tiers {
			if _, ok := tiers[bt]; !ok {
				tiers[bt] = table
			}
		}
		tuning.Tables.Tiers = tiers
	}

	if len(file.Routines) > 0 {
		routines := make(simulation.Routines, len(file.Routines))
		for name, tasks := range file.Routines {
			bt, err := shared.ParseBusinessType(name)
			if err != nil {
				return Tuning{}, fmt.Errorf("routines: %w", err)
			}
			normalized, err := normalizeRoutines(tasks)
			if err != nil {
				return Tuning{}, fmt.Errorf("routines %s: %w", bt, err)
			}
			routines[bt] = normalized
		}
		tuning.Tables.Routines = routines
	}

	if len(file.Templates) > 0 {
		templates, err := normalizeTemplates(file.Templates)
		if err != nil {
			return Tuning{}, err
		}
		tuning.Tables.Templates = templates
	}

	if len(file.Products) > 0 {
		for name, items := range file.Products {
			bt, err := shared.ParseBusinessType(name)
			if err != nil {
				return Tuning{}, fmt.Errorf("products: %w", err)
			}
			if err := validateProducts(bt, items); err != nil {
				return Tuning{}, err
			}
			tuning.Tables.Products[bt] = items
		}
	}

	if len(file.Missions) > 0 {
		missions, err := normalizeMissions(file.Missions)
		if err != nil {
			return Tuning{}, err
		}
		tuning.Tables.Missions = missions
	}

	if len(file.RollTable) > 0 {
		rolls, err := normalizeRollTable(file.RollTable)
		if err != nil {
			return Tuning{}, err
		}
		tuning.RollTable = rolls
	}
	return tuning, nil
}

// Apply writes the file's roll table into the loop config when it has one
func (t Tuning) Apply(cfg *simulation.Config) {
	if t.RollTable != nil {
		cfg.Events.RollTable = t.RollTable
	}
}

func validateTierTable(bt shared.BusinessType, table reputation.TierTable) error {
	if len(table) == 0 {
		return fmt.Errorf("tiers %s: table is empty", bt)
	}
	seen := make(map[int]bool, len(table))
	for _, row := range table {
		if row.Tier < 1 {
			return fmt.Errorf("tiers %s: tier numbers start at 1, got %d", bt, row.Tier)
		}
		if seen[row.Tier] {
			return fmt.Errorf("tiers %s: tier %d defined twice", bt, row.Tier)
		}
		if row.MaxCustomers < 0 || row.RequiredBP < 0 || row.RequiredCash < 0 {
			return fmt.Errorf("tiers %s: tier %d has a negative limit", bt, row.Tier)
		}
		seen[row.Tier] = true
	}
	if !seen[1] {
		return fmt.Errorf("tiers %s: tier 1 is missing", bt)
	}
	return nil
}

func normalizeRoutines(tasks []simulation.RoutineTask) ([]simulation.RoutineTask, error) {
	out := make([]simulation.RoutineTask, 0, len(tasks))
	for _, task := range tasks {
		t, err := workorder.ParseType(string(task.Type))
		if err != nil {
			return nil, fmt.Errorf("routine %q: %w", task.Name, err)
		}
		task.Type = t
		roles, err := parseRoles(task.RequiredRoles)
		if err != nil {
			return nil, fmt.Errorf("routine %q: %w", task.Name, err)
		}
		task.RequiredRoles = roles
		if _, err := task.Build(""); err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, nil
}

func normalizeTemplates(templates []staff.Template) ([]staff.Template, error) {
	seen := make(map[string]bool, len(templates))
	out := make([]staff.Template, 0, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("templates: template %q has no id", t.Name)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("templates: id %q defined twice", t.ID)
		}
		seen[t.ID] = true

		role, err := shared.ParseStaffRole(string(t.Role))
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.ID, err)
		}
		t.Role = role
		if t.Shift != "" {
			shift, err := staff.ParseShiftType(string(t.Shift))
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", t.ID, err)
			}
			t.Shift = shift
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		out = append(out, t)
	}
	return out, nil
}

func validateProducts(bt shared.BusinessType, items []inventory.Item) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("products %s: product %q has no product_id", bt, item.Name)
		}
		if seen[item.ProductID] {
			return fmt.Errorf("products %s: product_id %q defined twice", bt, item.ProductID)
		}
		if item.Quantity < 0 || item.PurchasePrice < 0 || item.SellPrice < 0 {
			return fmt.Errorf("products %s: %s has a negative quantity or price", bt, item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}

func normalizeMissions(defs []mission.Definition) ([]mission.Definition, error) {
	ids := make(map[string]bool, len(defs))
	for _, def := range defs {
		ids[def.ID] = true
	}
	out := make([]mission.Definition, 0, len(defs))
	for _, def := range defs {
		if def.BusinessType != "" {
			bt, err := shared.ParseBusinessType(string(def.BusinessType))
			if err != nil {
				return nil, fmt.Errorf("mission %q: %w", def.ID, err)
			}
			def.BusinessType = bt
		}
		objectives := make([]mission.ObjectiveDefinition, len(def.Objectives))
		for i, o := range def.Objectives {
			kind, err := mission.ParseObjectiveType(string(o.Type))
			if err != nil {
				return nil, fmt.Errorf("mission %q: %w", def.ID, err)
			}
			o.Type = kind
			objectives[i] = o
		}
		def.Objectives = objectives
		for _, p := range def.Prerequisites {
			if !ids[p] {
				return nil, fmt.Errorf("mission %q: unknown prerequisite %q", def.ID, p)
			}
		}
		out = append(out, def)
	}

	catalogue := mission.NewTracker(nil, nil, nil)
	for _, def := range out {
		if err := catalogue.Add(def); err != nil {
			return nil, fmt.Errorf("missions: %w", err)
		}
	}
	return out, nil
}

func normalizeRollTable(entries []operations.RollEntry) ([]operations.RollEntry, error) {
	out := make([]operations.RollEntry, 0, len(entries))
	for _, e := range entries {
		t, err := operations.ParseEventType(string(e.Type))
		if err != nil {
			return nil, fmt.Errorf("roll_table: %w", err)
		}
		if e.Probability < 0 || e.Probability > 1 {
			return nil, fmt.Errorf("roll_table: %s probability %.2f outside [0,1]", t, e.Probability)
		}
		e.Type = t
		out = append(out, e)
	}
	return out, nil
}

func parseRoles(roles []shared.StaffRole) ([]shared.StaffRole, error) {
	out := make([]shared.StaffRole, 0, len(roles))
	for _, r := range roles {
		role, err := shared.ParseStaffRole(string(r))
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}

// LoadScenario reads the seed data for a new game
func LoadScenario(path string) (simulation.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return simulation.Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var scenario simulation.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return simulation.Scenario{}, fmt.Errorf("invalid scenario yaml: %w", err)
	}
	for i, b := range scenario.Businesses {
		bt, err := shared.ParseBusinessType(string(b.Type))
		if err != nil {
			return simulation.Scenario{}, fmt.Errorf("scenario business %q: %w", b.Name, err)
		}
		scenario.Businesses[i].Type = bt
		for j, h := range b.Hires {
			if h.Shift == "" {
				continue
			}
			shift, err := staff.ParseShiftType(string(h.Shift))
			if err != nil {
				return simulation.Scenario{}, fmt.Errorf("scenario business %q: %w", b.Name, err)
			}
			scenario.Businesses[i].Hires[j].Shift = shift
		}
	}
	return scenario, nil
}
