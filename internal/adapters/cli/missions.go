package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/mission"
)

// NewMissionCommand creates the mission command with subcommands
func NewMissionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Browse, start and track missions",
		Long: `Missions are goals with rewards. Objectives advance on their own as
customers are served, tasks completed and staff hired; completing a mission
pays its money and business points and unlocks the missions that depend on it.

Examples:
  bizsim mission list --status available
  bizsim mission start grand-opening
  bizsim mission progress grand-opening tasks --amount 2`,
	}

	cmd.AddCommand(newMissionListCommand())
	cmd.AddCommand(newMissionStartCommand())
	cmd.AddCommand(newMissionProgressCommand())
	cmd.AddCommand(newMissionAbandonCommand())

	return cmd
}

func newMissionListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the mission catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return inspect(ctx, func(s *session) error {
				resp, err := s.send(ctx, &queries.ListMissionsQuery{Status: status})
				if err != nil {
					return err
				}
				missions := resp.(*queries.ListMissionsResponse).Missions
				if jsonOutput {
					return printJSON(missions)
				}
				renderMissions(missions)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "locked, available, active, completed or failed")

	return cmd
}

func newMissionStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <mission-id>",
		Short: "Start an available mission for the current business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.StartMissionCommand{MissionID: args[0], BusinessID: s.business()})
				if err != nil {
					return err
				}
				return reportMission(resp, "Started")
			})
		},
	}
}

func newMissionProgressCommand() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "progress <mission-id> <objective-id>",
		Short: "Record progress on an objective the game cannot observe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.ProgressMissionCommand{
					MissionID:   args[0],
					ObjectiveID: args[1],
					Amount:      amount,
				})
				if err != nil {
					return err
				}
				return reportMission(resp, "Updated")
			})
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 1, "Progress to add")

	return cmd
}

func newMissionAbandonCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "abandon <mission-id>",
		Short: "Give up an active mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.AbandonMissionCommand{MissionID: args[0], Reason: reason})
				if err != nil {
					return err
				}
				return reportMission(resp, "Abandoned")
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the mission was dropped")

	return cmd
}

func reportMission(resp interface{}, verb string) error {
	m := resp.(*commands.MissionResponse).Mission
	if jsonOutput {
		return printJSON(m)
	}
	fmt.Printf("%s %s (%s): %s, %.0f%% done\n", verb, m.ID, m.Title, m.Status, m.ProgressPercent())
	return nil
}

func renderMissions(missions []mission.Mission) {
	tw := newTable("Missions", "ID", "Title", "Status", "Business", "Progress", "Rewards", "Requires")
	for _, m := range missions {
		rewards := fmt.Sprintf("%s, %d BP", money(m.Rewards.Money), m.Rewards.BusinessPoints)
		tw.AppendRow(table.Row{
			m.ID, m.Title, m.Status, dash(m.BusinessID),
			fmt.Sprintf("%.0f%%", m.ProgressPercent()), rewards,
			dash(strings.Join(m.Prerequisites, ", ")),
		})
	}
	if len(missions) == 0 {
		tw.AppendRow(table.Row{"-", "no missions", "", "", "", "", ""})
	}
	tw.Render()
}
