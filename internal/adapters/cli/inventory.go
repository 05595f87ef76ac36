package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/inventory"
)

// NewStockCommand creates the stock command with subcommands
func NewStockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect shelves and order from suppliers",
		Long: `Businesses that sell goods sell one unit per customer. Low items with
auto-reorder on are restocked every hour; supply delays hold deliveries back
and bulk discounts cut the price of matching categories.

Examples:
  bizsim stock list --low
  bizsim stock order --product milk --category dairy --quantity 100 --price 0.8`,
	}

	cmd.AddCommand(newStockListCommand())
	cmd.AddCommand(newStockOrderCommand())

	return cmd
}

func newStockListCommand() *cobra.Command {
	var low bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stock levels and open purchase orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return inspect(ctx, func(s *session) error {
				resp, err := s.send(ctx, &queries.GetInventoryQuery{BusinessID: s.business(), LowOnly: low})
				if err != nil {
					return err
				}
				r := resp.(*queries.GetInventoryResponse)
				if jsonOutput {
					return printJSON(r)
				}
				renderStock(r)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&low, "low", false, "Only items at or below their reorder point")

	return cmd
}

func newStockOrderCommand() *cobra.Command {
	var (
		line     commands.PurchaseLine
		supplier string
		hours    int
		shipping float64
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a purchase order, paid now and delivered later",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.PlacePurchaseOrderCommand{
					BusinessID:    s.business(),
					SupplierID:    supplier,
					Lines:         []commands.PurchaseLine{line},
					DeliveryHours: hours,
					ShippingCost:  shipping,
				})
				if err != nil {
					return err
				}
				order := resp.(*commands.PlacePurchaseOrderResponse).Order
				if jsonOutput {
					return printJSON(order)
				}
				fmt.Printf("Ordered %s: %s (discount %s), due %s\n",
					order.ID, money(order.TotalCost), money(order.Discount),
					order.ExpectedDelivery.Format("Jan 2 15:04"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&line.ProductID, "product", "", "Product id [required]")
	cmd.Flags().StringVar(&line.Name, "name", "", "Product name for new products")
	cmd.Flags().StringVar(&line.Category, "category", "", "Product category (default: the stocked item's)")
	cmd.Flags().IntVar(&line.Quantity, "quantity", 0, "Units to order [required]")
	cmd.Flags().Float64Var(&line.UnitPrice, "price", 0, "Price per unit before discounts")
	cmd.Flags().StringVar(&supplier, "supplier", "", "Supplier id")
	cmd.Flags().IntVar(&hours, "hours", 0, "Delivery time in hours (default: configured delivery time)")
	cmd.Flags().Float64Var(&shipping, "shipping", 0, "Flat shipping cost")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("quantity")

	return cmd
}

func renderStock(r *queries.GetInventoryResponse) {
	tw := newTable(fmt.Sprintf("Stock of %s (value %s, warehouse %s)", r.BusinessID, money(r.TotalValue), percent(r.WarehouseUsage)),
		"Product", "Name", "Category", "Qty", "Reorder at", "Auto", "Buy", "Sell")
	for _, item := range r.Items {
		qty := fmt.Sprint(item.Quantity)
		if item.Low() {
			qty = text.FgYellow.Sprint(qty)
		}
		tw.AppendRow(table.Row{
			item.ProductID, item.Name, dash(item.Category), qty, item.ReorderPoint,
			yesNo(item.AutoReorder), money(item.PurchasePrice), money(item.SellPrice),
		})
	}
	if len(r.Items) == 0 {
		tw.AppendRow(table.Row{"-", "no stock", "", "", "", "", "", ""})
	}
	tw.Render()

	if len(r.OpenOrders) == 0 {
		return
	}
	orders := newTable("Open purchase orders", "ID", "Supplier", "Lines", "Cost", "Status", "Due")
	for _, o := range r.OpenOrders {
		orders.AppendRow(table.Row{
			o.ID, dash(o.SupplierID), describeLines(o.Lines), money(o.TotalCost), o.Status,
			o.ExpectedDelivery.Format("Jan 2 15:04"),
		})
	}
	orders.Render()
}

func describeLines(lines []inventory.OrderLine) string {
	if len(lines) == 1 {
		return fmt.Sprintf("%d x %s", lines[0].Quantity, lines[0].ProductID)
	}
	return fmt.Sprintf("%d products", len(lines))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
