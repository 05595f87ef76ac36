package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	slotFlag   string
	businessID string
	jsonOutput bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bizsim",
		Short: "Business simulation CLI - run and inspect a staffed business game",
		Long: `bizsim manages a saved business simulation: businesses, staff, work
orders and operational events advancing one simulated minute per tick.

Commands that change the game load the save slot, apply the change and save
it back. They refuse to run while bizsimd is serving the same database; use
--remote views against the server instead.

Examples:
  bizsim new --scenario configs/scenario.yaml
  bizsim dashboard
  bizsim work-order add --name "Restock aisle 4" --type stocking --priority high
  bizsim staff hire --template cashier --shift morning
  bizsim advance --hours 8
  bizsim event trigger --type major-breakdown
  bizsim stock order --product milk --quantity 100 --price 0.8
  bizsim mission start grand-opening
  bizsim snapshot export --file monday.snap.zst
  bizsim watch --names dispatch.task_completed`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&slotFlag, "slot", "",
		"Save slot to operate on (default: preference, then autosave)")
	rootCmd.PersistentFlags().StringVar(&businessID, "business", "",
		"Business id to scope views and new work to (default: preference)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Print simulation logs down to DEBUG on stderr")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewDashboardCommand())
	rootCmd.AddCommand(NewAdvanceCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewWorkOrderCommand())
	rootCmd.AddCommand(NewStaffCommand())
	rootCmd.AddCommand(NewEventCommand())
	rootCmd.AddCommand(NewBusinessCommand())
	rootCmd.AddCommand(NewStockCommand())
	rootCmd.AddCommand(NewMissionCommand())
	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewHistoryCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
