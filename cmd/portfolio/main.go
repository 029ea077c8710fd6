// Command portfolio runs the registration and portfolio services locally.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Lllllllleong/portfolioflow/internal/logging"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Registration wizard and portfolio builder",
	Long: `Runs the registration wizard and achievements editor against Firestore and
Cloud Storage, or fully in memory with --store memory.

Configuration comes from the environment (PROJECT_ID, STORE_BACKEND,
HANDOFF_BUCKET, HANDOFF_TTL, BCRYPT_COST, PASSWORD_PEPPER,
ACHIEVEMENTS_COLLECTION, USERS_COLLECTION); a .env file is loaded if present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_, err := logging.Setup(logLevel, logFormat)
		return err
	},
}

var (
	logLevel  string
	logFormat string
	storeFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Document store backend: memory or firestore (defaults to STORE_BACKEND)")
}

// newBackend loads the backend configuration, applying --store on top.
func newBackend(ctx context.Context) (*services.Backend, error) {
	if storeFlag != "" {
		if err := os.Setenv("STORE_BACKEND", storeFlag); err != nil {
			return nil, err
		}
	}
	config, err := services.LoadBackendConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return services.NewBackend(ctx, config)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
