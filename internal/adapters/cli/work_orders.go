package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// NewWorkOrderCommand creates the work-order command with subcommands
func NewWorkOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "work-order",
		Aliases: []string{"wo"},
		Short:   "Create and resolve work orders",
		Long: `Work orders are the tasks staff pick up from the dispatch queue.

Priorities: low, normal, high, urgent, critical.

Examples:
  bizsim work-order add --name "Clean spill" --type cleaning --priority urgent
  bizsim work-order list --status pending
  bizsim work-order assign id-7 --worker id-3
  bizsim work-order complete id-7 --quality 0.9`,
	}

	cmd.AddCommand(newWorkOrderAddCommand())
	cmd.AddCommand(newWorkOrderListCommand())
	cmd.AddCommand(newWorkOrderAssignCommand())
	cmd.AddCommand(newWorkOrderCompleteCommand())
	cmd.AddCommand(newWorkOrderOutcomeCommand("fail", "Fail a work order (counts as an incident)"))
	cmd.AddCommand(newWorkOrderOutcomeCommand("cancel", "Withdraw a work order"))

	return cmd
}

func newWorkOrderAddCommand() *cobra.Command {
	var c commands.AddWorkOrderCommand

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Queue a new work order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				if c.BusinessID == "" {
					c.BusinessID = s.business()
				}
				resp, err := s.send(ctx, &c)
				if err != nil {
					return err
				}
				r := resp.(*commands.AddWorkOrderResponse)
				if jsonOutput {
					return printJSON(r.Order)
				}
				fmt.Printf("Queued %s %q (%s, due %s)\n", r.TaskID, r.Order.Name, r.Order.Priority,
					r.Order.Deadline.Format("Jan 2 15:04"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "Work order name [required]")
	cmd.Flags().StringVar(&c.Type, "type", "", "Work order type, e.g. stocking, cleaning, cooking [required]")
	cmd.Flags().StringVar(&c.Priority, "priority", "normal", "Priority")
	cmd.Flags().StringVar(&c.Description, "description", "", "Free text description")
	cmd.Flags().StringSliceVar(&c.RequiredRoles, "roles", nil, "Roles allowed to take it (default: any)")
	cmd.Flags().StringSliceVar(&c.RequiredSkills, "skills", nil, "Skills a worker must have")
	cmd.Flags().IntVar(&c.MinimumLevel, "min-level", 0, "Suggested worker level (informational, not enforced)")
	cmd.Flags().Float64Var(&c.EstimatedDuration, "work", 0, "Work units needed (default 10)")
	cmd.Flags().IntVar(&c.DeadlineMinutes, "deadline", 0, "Minutes until it expires (default: queue setting)")
	cmd.Flags().IntVar(&c.ExperienceReward, "xp", 0, "Experience granted on completion")
	cmd.Flags().Float64Var(&c.MoneyReward, "reward", 0, "Money earned on completion")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newWorkOrderListCommand() *cobra.Command {
	var (
		status  string
		history bool
		remote  bool
		address string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		Long: `List open work orders, optionally with archived ones.

Statuses: pending, in_progress, completed, failed, expired, cancelled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context(), 30*time.Second)
			defer cancel()

			if remote {
				client, err := dialRemote(address)
				if err != nil {
					return err
				}
				defer client.Close()
				orders, err := client.ListWorkOrders(ctx, businessID, status, history)
				if err != nil {
					return err
				}
				return showOrders(orders)
			}

			return inspect(ctx, func(s *session) error {
				resp, err := s.send(ctx, &queries.ListWorkOrdersQuery{
					BusinessID:     businessID,
					Status:         status,
					IncludeHistory: history,
				})
				if err != nil {
					return err
				}
				return showOrders(resp.(*queries.ListWorkOrdersResponse).Orders)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only orders in this status")
	cmd.Flags().BoolVar(&history, "history", false, "Include archived orders")
	cmd.Flags().BoolVar(&remote, "remote", false, "Read from a running bizsimd")
	cmd.Flags().StringVar(&address, "address", "", "bizsimd gRPC address (default: server.grpc_address)")

	return cmd
}

func showOrders(orders []workorder.Snapshot) error {
	if jsonOutput {
		return printJSON(orders)
	}
	renderOrders("Work orders", orders)
	return nil
}

func newWorkOrderAssignCommand() *cobra.Command {
	var workerID string

	cmd := &cobra.Command{
		Use:   "assign <task-id>",
		Short: "Hand a pending work order to a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendOrderCommand(cmd.Context(), &commands.AssignWorkOrderCommand{TaskID: args[0], WorkerID: workerID})
		},
	}

	cmd.Flags().StringVar(&workerID, "worker", "", "Worker id [required]")
	cmd.MarkFlagRequired("worker")

	return cmd
}

func newWorkOrderCompleteCommand() *cobra.Command {
	var quality float64

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Complete a work order, e.g. after its mini-game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendOrderCommand(cmd.Context(), &commands.CompleteWorkOrderCommand{TaskID: args[0], Quality: quality})
		},
	}

	cmd.Flags().Float64Var(&quality, "quality", 1.0, "Result quality between 0 and 1")

	return cmd
}

func newWorkOrderOutcomeCommand(use, short string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if use == "fail" {
				return sendOrderCommand(cmd.Context(), &commands.FailWorkOrderCommand{TaskID: args[0], Reason: reason})
			}
			return sendOrderCommand(cmd.Context(), &commands.CancelWorkOrderCommand{TaskID: args[0], Reason: reason})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why it was given up")

	return cmd
}

func sendOrderCommand(ctx context.Context, request common.Request) error {
	return mutate(ctx, func(s *session) error {
		resp, err := s.send(ctx, request)
		if err != nil {
			return err
		}
		order := resp.(*commands.WorkOrderResponse).Order
		if jsonOutput {
			return printJSON(order)
		}
		fmt.Printf("%s %q is now %s\n", order.ID, order.Name, order.Status)
		return nil
	})
}
