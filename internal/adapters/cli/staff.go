package cli

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/domain/staff"
)

// NewStaffCommand creates the staff command with subcommands
func NewStaffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Hire workers and manage shifts",
		Long: `Hire workers from templates and move them on and off duty.

Shifts: morning (06-14), afternoon (14-22), evening (22-06), on_call, off.
Shift actions: start, end, break, end-break.

Examples:
  bizsim staff templates
  bizsim staff hire --template stocker --shift afternoon
  bizsim staff shift id-4 start
  bizsim staff shift id-4 break --minutes 15`,
	}

	cmd.AddCommand(newStaffListCommand())
	cmd.AddCommand(newStaffTemplatesCommand())
	cmd.AddCommand(newStaffHireCommand())
	cmd.AddCommand(newStaffShiftCommand())

	return cmd
}

func newStaffListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), func(s *session) error {
				roster := s.sim.Directory().Roster()
				if businessID != "" {
					filtered := roster[:0]
					for _, w := range roster {
						if w.BusinessID == businessID {
							filtered = append(filtered, w)
						}
					}
					roster = filtered
				}
				if jsonOutput {
					return printJSON(roster)
				}
				renderRoster("Staff", roster)
				return nil
			})
		},
	}
}

func newStaffTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List hiring templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), func(s *session) error {
				templates := s.sim.Templates()
				ids := make([]string, 0, len(templates))
				for id := range templates {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				if jsonOutput {
					list := make([]staff.Template, 0, len(ids))
					for _, id := range ids {
						list = append(list, templates[id])
					}
					return printJSON(list)
				}
				tw := newTable("Hiring templates", "ID", "Name", "Role", "Wage", "Shift", "Skills")
				for _, id := range ids {
					t := templates[id]
					tw.AppendRow(table.Row{t.ID, t.Name, t.Role, money(t.BaseWage), t.Shift, fmt.Sprint(t.StartingSkills)})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func newStaffHireCommand() *cobra.Command {
	var (
		template string
		shift    string
	)

	cmd := &cobra.Command{
		Use:   "hire",
		Short: "Hire a worker from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.HireWorkerCommand{
					TemplateID: template,
					BusinessID: s.business(),
					Shift:      shift,
				})
				if err != nil {
					return err
				}
				return showWorker("Hired", resp.(*commands.WorkerResponse).Worker)
			})
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Template id [required]")
	cmd.Flags().StringVar(&shift, "shift", "", "Shift (default: the template's)")
	cmd.MarkFlagRequired("template")

	return cmd
}

func newStaffShiftCommand() *cobra.Command {
	var minutes float64

	cmd := &cobra.Command{
		Use:   "shift <worker-id> <start|end|break|end-break>",
		Short: "Change a worker's duty",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.ChangeShiftCommand{
					WorkerID:      args[0],
					Action:        args[1],
					BreakDuration: minutes,
				})
				if err != nil {
					return err
				}
				return showWorker("Updated", resp.(*commands.WorkerResponse).Worker)
			})
		},
	}

	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Break length in minutes (default: simulation.break_duration)")

	return cmd
}

func showWorker(verb string, w staff.Snapshot) error {
	if jsonOutput {
		return printJSON(w)
	}
	fmt.Printf("%s %s %s (%s, level %d, %s shift) - %s\n", verb, w.ID, w.Name, w.Role, w.Level, w.Shift, w.State)
	return nil
}
