package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/domain/operations"
)

// NewEventCommand creates the event command with subcommands
func NewEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Trigger, schedule and resolve operational events",
		Long: `Operational events change demand, prices and staff performance
while they last. Some need an action before they end.

Examples:
  bizsim event list
  bizsim event trigger --type rain
  bizsim event trigger --type major-breakdown --target freezer-2
  bizsim event action id-9 repair
  bizsim event schedule --type health-inspection --days 2`,
	}

	cmd.AddCommand(newEventListCommand())
	cmd.AddCommand(newEventTriggerCommand())
	cmd.AddCommand(newEventActionCommand())
	cmd.AddCommand(newEventScheduleCommand())

	return cmd
}

func newEventListCommand() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), func(s *session) error {
				events := s.sim.Engine().ActiveEvents()
				if history {
					events = append(events, s.sim.Engine().History()...)
				}
				if jsonOutput {
					return printJSON(events)
				}
				renderEvents("Events", events)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Include ended events")

	return cmd
}

func newEventTriggerCommand() *cobra.Command {
	var eventType, target string

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Start an event now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.TriggerEventCommand{Type: eventType, Target: target})
				if err != nil {
					return err
				}
				return showEvent("Started", resp.(*commands.TriggerEventResponse).Event)
			})
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Event type, e.g. rain, major-breakdown [required]")
	cmd.Flags().StringVar(&target, "target", "", "What the event affects, e.g. equipment name")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newEventActionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "action <event-id> <action>",
		Short: "Resolve an event that requires action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.HandleEventActionCommand{EventID: args[0], Action: args[1]})
				if err != nil {
					return err
				}
				return showEvent("Handled", resp.(*commands.HandleEventActionResponse).Event)
			})
		},
	}
}

func newEventScheduleCommand() *cobra.Command {
	var (
		eventType string
		target    string
		days      int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an event for a later day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.ScheduleEventCommand{Type: eventType, DaysFromNow: days, Target: target})
				if err != nil {
					return err
				}
				scheduled := resp.(*commands.ScheduleEventResponse).Scheduled
				if jsonOutput {
					return printJSON(scheduled)
				}
				fmt.Printf("Scheduled %s for day %d\n", scheduled.Type, scheduled.TriggerDay)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Event type [required]")
	cmd.Flags().StringVar(&target, "target", "", "What the event affects")
	cmd.Flags().IntVar(&days, "days", 1, "Days from today")
	cmd.MarkFlagRequired("type")

	return cmd
}

func showEvent(verb string, e operations.Snapshot) error {
	if jsonOutput {
		return printJSON(e)
	}
	fmt.Printf("%s %s %s (%s)\n", verb, e.ID, e.Name, e.Severity)
	if e.RequiresAction && e.Active {
		fmt.Printf("  needs action: %s\n", e.ActionDescription)
	}
	return nil
}
