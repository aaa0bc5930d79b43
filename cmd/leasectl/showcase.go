package main

import (
	"os"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cli"

	"github.com/spf13/cobra"
)

// showcaseCmd represents the showcase command
var showcaseCmd = &cobra.Command{
	Use:   "showcase",
	Short: "List the vehicles on the Dream Lease showcase.",
	RunE: func(cmd *cobra.Command, args []string) error {
		showcase, err := newAPIClient().Showcase(cmd.Context())
		if err != nil {
			return err
		}
		return cli.RenderShowcase(os.Stdout, showcase)
	},
}

func init() {
	rootCmd.AddCommand(showcaseCmd)
}
