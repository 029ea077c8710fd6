package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/Lllllllleong/portfolioflow/internal/tui"
	"github.com/Lllllllleong/portfolioflow/internal/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var registerCommand = &cobra.Command{
	Use:   "register",
	Short: "Walk through the registration wizard in the terminal",
	Long: `Runs the six-step registration wizard. On completion the profile is saved,
the portfolio summary is staged for the portfolio builder and its handoff
ticket is printed as JSON.`,
	RunE: runRegister,
}

var registerOwner string

func init() {
	registerCommand.Flags().StringVar(&registerOwner, "owner", "", "Owner ID to register under (default: a new UUID)")
	rootCmd.AddCommand(registerCommand)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backend, err := newBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	regConfig, err := services.LoadRegistrationConfig()
	if err != nil {
		return err
	}
	reg := services.NewRegistrationWithBackend(backend, *regConfig)

	var opts []wizard.ControllerOption
	if registerOwner != "" {
		opts = append(opts, wizard.WithOwnerID(registerOwner))
	}
	ctrl := reg.NewController(&navigation.Recorder{}, opts...)

	final, err := tea.NewProgram(tui.NewModel(ctx, ctrl, reg.ValidateOptions()...)).Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	m, ok := final.(tui.Model)
	if !ok || m.Cancelled() || m.Completion() == nil {
		return fmt.Errorf("registration cancelled")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Completion())
}
