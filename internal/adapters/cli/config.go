package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage bizsim configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (BIZSIM_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default business and slot) are stored in
~/.bizsim/preferences.json

Examples:
  bizsim config show
  bizsim config set-slot weekend
  bizsim config set-business id-1
  bizsim config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSlotCommand())
	cmd.AddCommand(newConfigSetBusinessCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.Default()
			}
			prefs := loadPreferences()

			if jsonOutput {
				return printJSON(map[string]interface{}{"config": cfg, "preferences": prefs})
			}

			fmt.Println("bizsim Configuration")
			fmt.Println("====================")
			fmt.Println()
			fmt.Println("User Preferences:")
			fmt.Printf("  Default slot:     %s\n", orDefault(prefs.DefaultSlot, "(autosave)"))
			fmt.Printf("  Default business: %s\n", orDefault(prefs.DefaultBusinessID, "(active business)"))
			fmt.Println()
			fmt.Println("Database:")
			fmt.Printf("  Type: %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path: %s\n", cfg.Database.Path)
			} else {
				fmt.Printf("  Host: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
			}
			fmt.Println()
			fmt.Println("Simulation:")
			fmt.Printf("  Ticks per second: %.1f\n", cfg.Simulation.Loop.TicksPerSecond)
			fmt.Printf("  Opening hours:    %02d:00 - %02d:00\n", cfg.Simulation.Loop.OpenHour, cfg.Simulation.Loop.CloseHour)
			fmt.Printf("  Tuning file:      %s\n", orDefault(cfg.Simulation.TuningFile, "(built in)"))
			fmt.Printf("  Scenario file:    %s\n", orDefault(cfg.Simulation.ScenarioFile, "(none)"))
			fmt.Printf("  Autosave:         %s\n", cfg.Simulation.AutosaveInterval)
			fmt.Println()
			fmt.Println("Server:")
			fmt.Printf("  gRPC: %s\n", cfg.Server.GRPCAddress)
			fmt.Printf("  HTTP: %s\n", cfg.Server.HTTPAddress)
			return nil
		},
	}
}

func newConfigSetSlotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-slot <slot>",
		Short: "Set the default save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updatePreferences(func(p *config.Preferences) { p.DefaultSlot = args[0] }); err != nil {
				return err
			}
			fmt.Printf("Default slot set to %q\n", args[0])
			return nil
		},
	}
}

func newConfigSetBusinessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-business <business-id>",
		Short: "Set the default business for CLI views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updatePreferences(func(p *config.Preferences) { p.DefaultBusinessID = args[0] }); err != nil {
				return err
			}
			fmt.Printf("Default business set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updatePreferences(func(p *config.Preferences) { *p = config.Preferences{} }); err != nil {
				return err
			}
			fmt.Println("Preferences cleared")
			return nil
		},
	}
}

func updatePreferences(change func(*config.Preferences)) error {
	store, err := config.NewPreferencesStore()
	if err != nil {
		return err
	}
	return store.Update(change)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
