package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/domain/business"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
)

// NewBusinessCommand creates the business command with subcommands
func NewBusinessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "business",
		Short: "Open, select and upgrade businesses",
		Long: `Businesses earn from customers, pay wages and climb tiers with business
points and cash.

Types: hypermarket, retail_fashion, restaurant, construction, taxi_company.

Examples:
  bizsim business create --type restaurant --name "Night Kitchen"
  bizsim business select id-12
  bizsim business upgrade`,
	}

	cmd.AddCommand(newBusinessCreateCommand())
	cmd.AddCommand(newBusinessSelectCommand())
	cmd.AddCommand(newBusinessUpgradeCommand())

	return cmd
}

func newBusinessCreateCommand() *cobra.Command {
	var businessType, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new tier 1 business",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.CreateBusinessCommand{Type: businessType, Name: name})
				if err != nil {
					return err
				}
				return showBusiness("Opened", resp.(*commands.BusinessResponse).Business)
			})
		},
	}

	cmd.Flags().StringVar(&businessType, "type", "", "Business type [required]")
	cmd.Flags().StringVar(&name, "name", "", "Display name [required]")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newBusinessSelectCommand() *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "select <business-id>",
		Short: "Make a business the active one",
		Long: `Make a business the active one in the saved game. New work orders and
hires default to it. With --remember it also becomes the CLI default for
views.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.SelectBusinessCommand{BusinessID: args[0]})
				if err != nil {
					return err
				}
				return showBusiness("Selected", resp.(*commands.BusinessResponse).Business)
			})
			if err != nil || !remember {
				return err
			}
			return updatePreferences(func(p *config.Preferences) { p.DefaultBusinessID = args[0] })
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", false, "Also store it as the CLI default business")

	return cmd
}

func newBusinessUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Pay for the next tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return mutate(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.UpgradeTierCommand{BusinessID: s.business()})
				if err != nil {
					return err
				}
				r := resp.(*commands.UpgradeTierResponse)
				if jsonOutput {
					return printJSON(r)
				}
				fmt.Printf("%s is now tier %d (%s): up to %d staff, %d customers\n",
					r.Business.Name, r.Tier.Tier, r.Tier.Name, r.Tier.MaxStaff, r.Tier.MaxCustomers)
				return nil
			})
		},
	}
}

func showBusiness(verb string, b business.Summary) error {
	if jsonOutput {
		return printJSON(b)
	}
	fmt.Printf("%s %s %s (%s, tier %d, cash %s)\n", verb, b.BusinessID, b.Name, b.BusinessType, b.Tier, money(b.Cash))
	return nil
}
