package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
)

// NewLogsCommand shows persisted simulation logs of a slot
func NewLogsCommand() *cobra.Command {
	var (
		level string
		limit int
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show persisted simulation logs",
		Long: `Show simulation logs stored in the database for the current slot.
Logs are only stored when logging.persist is enabled.

Examples:
  bizsim logs --limit 20
  bizsim logs --level ERROR --since 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			var levelFilter *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelFilter = &upper
			}
			var sinceFilter *time.Time
			if since > 0 {
				t := time.Now().Add(-since)
				sinceFilter = &t
			}

			repo := persistence.NewGormSimulationLogRepository(s.db, nil)
			entries, err := repo.GetLogs(ctx, s.slot, limit, levelFilter, sinceFilter)
			if err != nil {
				return fmt.Errorf("failed to read logs: %w", err)
			}
			if jsonOutput {
				return printJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Printf("No logs for slot %q\n", s.slot)
				return nil
			}
			// Oldest first reads naturally in a terminal
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Printf("[%s] %-7s %s%s\n", e.Timestamp.Local().Format(time.DateTime), e.Level, e.Message, formatFields(e.Metadata))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Only this level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	cmd.Flags().DurationVar(&since, "since", 0, "Only entries newer than this, e.g. 30m")

	return cmd
}

// NewHistoryCommand shows closed-day results recorded for a business
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show daily results of a business",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return inspect(ctx, func(s *session) error {
				id := s.business()
				if id == "" {
					return fmt.Errorf("no business: pass --business or create one")
				}
				repo := persistence.NewGormDailyStatsRepository(s.db, nil, s.logger)
				days, err := repo.History(ctx, id, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(days)
				}
				tw := newTable("Daily results for "+id, "Day", "Revenue", "Expenses", "Profit", "Customers", "Tasks", "Incidents")
				for _, d := range days {
					tw.AppendRow(table.Row{d.Day, money(d.Revenue), money(d.Expenses), money(d.Profit()),
						d.CustomersServed, d.TasksCompleted, d.Incidents})
				}
				tw.Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 14, "Number of most recent days")

	return cmd
}

func formatFields(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	return b.String()
}
