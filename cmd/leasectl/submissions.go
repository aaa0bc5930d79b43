package main

import (
	"os"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cli"

	"github.com/spf13/cobra"
)

// submissionsCmd represents the submissions command
var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Show the order and quote ledger (admin API key required).",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := newAPIClient().Submissions(cmd.Context(), kind, status, limit)
		if err != nil {
			return err
		}
		return cli.RenderSubmissions(os.Stdout, list)
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)

	submissionsCmd.Flags().String("kind", "", "Filter by kind: order or quote")
	submissionsCmd.Flags().String("status", "", "Filter by status: succeeded or failed")
	submissionsCmd.Flags().Int("limit", 20, "Maximum rows")
}
