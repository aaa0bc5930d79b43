package main

import (
	"fmt"
	"os"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cli"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"

	"github.com/spf13/cobra"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure <productId>",
	Short: "Build a configuration, price the lease and optionally place it.",
	Long: `Loads the product from the catalog, applies the given selections and prints
the priced breakdown with the lease payment.

  leasectl configure 01tWs000001AbCdEFG --set Colour=WHT --component grp-wheels=w20 --term 48 --quote`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		sets, _ := flags.GetStringArray("set")
		components, _ := flags.GetStringArray("component")
		term, _ := flags.GetInt("term")
		order, _ := flags.GetBool("order")
		quote, _ := flags.GetBool("quote")

		if order && quote {
			return fmt.Errorf("--order and --quote are mutually exclusive")
		}

		attributes, err := cli.ParseAssignments(sets)
		if err != nil {
			return fmt.Errorf("--set: %w", err)
		}
		groups, err := cli.ParseAssignments(components)
		if err != nil {
			return fmt.Errorf("--component: %w", err)
		}

		opts := cli.ConfigureOptions{
			ProductID:  args[0],
			Attributes: attributes,
			Components: groups,
			LeaseTerm:  term,
		}
		if flags.Changed("down") {
			down, _ := flags.GetFloat64("down")
			opts.DownPayment = &down
		}
		switch {
		case order:
			opts.Submit = commerce.KindOrder
		case quote:
			opts.Submit = commerce.KindQuote
		}

		client := newAPIClient()
		result, err := cli.Configure(cmd.Context(), client, client, opts)
		if err != nil {
			return err
		}
		return cli.RenderConfiguration(os.Stdout, result)
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().StringArray("set", nil, "Attribute selection as name=value (repeatable)")
	configureCmd.Flags().StringArray("component", nil, "Component selection as groupId=componentId (repeatable)")
	configureCmd.Flags().Int("term", 0, "Lease term in months: 24, 36, 48 or 60 (default 36)")
	configureCmd.Flags().Float64("down", 0, "Down payment (default 20% of the total)")
	configureCmd.Flags().Bool("order", false, "Place an order for the configuration")
	configureCmd.Flags().Bool("quote", false, "Request a quote for the configuration")
}
