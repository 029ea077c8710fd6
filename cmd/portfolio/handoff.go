package main

import (
	"encoding/json"
	"fmt"

	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/spf13/cobra"
)

var handoffCommand = &cobra.Command{
	Use:   "handoff",
	Short: "Inspect and maintain registration-to-portfolio handoffs",
}

var handoffSweepCommand = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired handoff payloads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		backend, err := newBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		removed, err := backend.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired handoff(s)\n", removed)
		return nil
	},
}

var handoffClaimCommand = &cobra.Command{
	Use:   "claim KEY",
	Short: "Claim a staged portfolio profile (consumes it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := newBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		fn := services.NewPortfolioWithBackend(backend, services.LoadPortfolioConfig())
		res, err := fn.Process(cmd.Context(), &models.ClaimPortfolioRequest{Key: args[0]})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Profile)
	},
}

func init() {
	handoffCommand.AddCommand(handoffSweepCommand, handoffClaimCommand)
	rootCmd.AddCommand(handoffCommand)
}
