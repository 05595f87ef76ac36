package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/wiring"
)

// NewNewCommand starts a fresh game in the current slot
func NewNewCommand() *cobra.Command {
	var (
		scenario string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		Long: `Start a new game in the current slot, seeded from a scenario file.

Without --scenario the configured simulation.scenario_file is used. An
existing save in the slot is only replaced with --force.

Examples:
  bizsim new
  bizsim new --scenario configs/scenario.yaml --slot weekend --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), scenario, force)
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario file (default: simulation.scenario_file)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing save in the slot")

	return cmd
}

func runNew(ctx context.Context, scenario string, force bool) error {
	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if !force {
		infos, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if info.Slot == s.slot {
				return fmt.Errorf("slot %q already holds a game saved at %s: use --force to replace it", s.slot, info.Clock)
			}
		}
	}

	if scenario == "" {
		scenario = s.cfg.Simulation.ScenarioFile
	}
	if err := wiring.Seed(s.sim, scenario); err != nil {
		return err
	}
	info, err := s.save(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("New game saved to slot %q at %s\n", info.Slot, info.Clock)
	for _, l := range s.sim.Directory().Businesses() {
		fmt.Printf("  %s  %s (%s)\n", l.ID(), l.Name(), l.BusinessType())
	}
	return nil
}

// NewDashboardCommand prints the dashboard of the saved game or a live server
func NewDashboardCommand() *cobra.Command {
	var (
		remote  bool
		address string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the business dashboard",
		Long: `Show clock, businesses, queue, staff and events.

With --remote the dashboard is read from a running bizsimd over gRPC.

Examples:
  bizsim dashboard
  bizsim dashboard --business id-1 --json
  bizsim dashboard --remote --address localhost:50061`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context(), 30*time.Second)
			defer cancel()

			if remote {
				client, err := dialRemote(address)
				if err != nil {
					return err
				}
				defer client.Close()
				dashboard, err := client.GetDashboard(ctx, businessID)
				if err != nil {
					return err
				}
				return showDashboard(dashboard)
			}

			return inspect(ctx, func(s *session) error {
				resp, err := s.send(ctx, &queries.GetDashboardQuery{BusinessID: businessID})
				if err != nil {
					return err
				}
				return showDashboard(resp.(*queries.GetDashboardResponse).Dashboard)
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Read from a running bizsimd")
	cmd.Flags().StringVar(&address, "address", "", "bizsimd gRPC address (default: server.grpc_address)")

	return cmd
}

func showDashboard(d simulation.Dashboard) error {
	if jsonOutput {
		return printJSON(d)
	}

	fmt.Printf("%s   total business points: %d\n\n", d.Clock, d.TotalBusinessPoints)

	tw := newTable("Businesses", "", "ID", "Name", "Type", "Tier", "Cash", "Profit today",
		"Reputation", "BP", "Customers", "Staff on duty", "Open")
	for _, b := range d.Businesses {
		marker := ""
		if b.BusinessID == d.ActiveBusinessID {
			marker = "*"
		}
		tw.AppendRow(table.Row{
			marker, b.BusinessID, b.Name, b.BusinessType, b.Tier, money(b.Cash), money(b.TodayProfit),
			fmt.Sprintf("%.1f", b.Reputation), b.BusinessPoints, b.CustomersServed, b.OnDutyCount, b.IsOpen,
		})
	}
	tw.Render()

	c := d.TaskCounts
	fmt.Printf("\nQueue: %d pending, %d in progress, %d completed, %d failed, %d expired, %d cancelled\n",
		c.Pending, c.InProgress, c.Completed, c.Failed, c.Expired, c.Cancelled)
	renderOrders("Pending work", d.PendingTasks)
	renderOrders("In progress", d.ActiveTasks)
	renderRoster("Staff", d.Roster)

	if len(d.ActiveEvents) > 0 {
		renderEvents("Active events", d.ActiveEvents)
	}
	if len(d.Effects) > 0 {
		keys := make([]string, 0, len(d.Effects))
		for k := range d.Effects {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tw := newTable("Effects in force", "Effect", "Value")
		for _, k := range keys {
			tw.AppendRow(table.Row{k, fmt.Sprintf("%.2f", d.Effects[k])})
		}
		tw.Render()
	}
	if len(d.ScheduledEvents) > 0 {
		tw := newTable("Scheduled", "Type", "Day", "Target")
		for _, e := range d.ScheduledEvents {
			tw.AppendRow(table.Row{e.Type, e.TriggerDay, dash(e.Target)})
		}
		tw.Render()
	}
	return nil
}

// NewAdvanceCommand runs the saved game forward
func NewAdvanceCommand() *cobra.Command {
	var (
		ticks int
		hours int
		days  int
	)

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the simulation",
		Long: `Run the saved game forward as fast as possible and save it.

One tick is one simulated minute. --hours and --days add to --ticks.

Examples:
  bizsim advance --ticks 30
  bizsim advance --hours 8
  bizsim advance --days 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			total := ticks + hours*60 + days*24*60
			if total <= 0 {
				total = 1
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.AdvanceSimulationCommand{Ticks: total})
				if err != nil {
					return err
				}
				r := resp.(*commands.AdvanceSimulationResponse)
				if jsonOutput {
					return printJSON(r)
				}
				fmt.Printf("Advanced %d minutes to %s\n", r.Ticks, r.Last.Clock)
				fmt.Printf("  assigned %d, completed %d, expired %d, routine orders %d, days closed %d\n",
					r.Assigned, r.Completed, r.Expired, r.Generated, r.DaysRolled)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Minutes to advance")
	cmd.Flags().IntVar(&hours, "hours", 0, "Hours to advance")
	cmd.Flags().IntVar(&days, "days", 0, "Days to advance")

	return cmd
}

// NewWatchCommand streams live events from a running server
func NewWatchCommand() *cobra.Command {
	var (
		names   []string
		address string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live events from bizsimd",
		Long: `Print bus events from a running bizsimd as they happen.

Examples:
  bizsim watch
  bizsim watch --names dispatch.task_completed,operations.event_started`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := dialRemote(address)
			if err != nil {
				return err
			}
			defer client.Close()

			err = client.WatchEvents(ctx, names, func(msg *structpb.Struct) error {
				if jsonOutput {
					return printJSON(msg.AsMap())
				}
				fields := msg.GetFields()
				fmt.Printf("%-14s %-32s %s\n",
					fields["clock"].GetStringValue(),
					fields["name"].GetStringValue(),
					summarizePayload(fields["payload"].GetStructValue()))
				return nil
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&names, "names", nil, "Event names to include (default: all)")
	cmd.Flags().StringVar(&address, "address", "", "bizsimd gRPC address (default: server.grpc_address)")

	return cmd
}

// summarizePayload picks the identifying fields out of an event payload
func summarizePayload(payload *structpb.Struct) string {
	if payload == nil {
		return ""
	}
	for _, key := range []string{"Order", "Event", "Report"} {
		if inner := payload.GetFields()[key].GetStructValue(); inner != nil {
			payload = inner
			break
		}
	}
	var out string
	for _, key := range []string{"id", "name", "status", "severity", "business_id", "WorkerID", "Shift", "NewLevel", "NewDay"} {
		v, ok := payload.GetFields()[key]
		if !ok {
			continue
		}
		var s string
		switch v.GetKind().(type) {
		case *structpb.Value_NumberValue:
			s = fmt.Sprintf("%g", v.GetNumberValue())
		default:
			s = v.GetStringValue()
		}
		if s != "" {
			out += key + "=" + s + " "
		}
	}
	return out
}
