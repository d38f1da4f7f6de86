package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kbimport/internal/config"
	"github.com/JonMunkholm/kbimport/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "kbimport",
	Short: "Bulk import questions into a knowledge base",
	Long: `kbimport runs the knowledge base import service and its maintenance tasks.

Examples:
  kbimport serve                       # Start the HTTP server
  kbimport migrate                     # Apply database migrations
  kbimport template -f xlsx -o t.xlsx  # Write the import template
  kbimport check faq.csv               # Validate a file offline`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Overload overwrites existing env vars
		if err := godotenv.Overload(); err == nil {
			slog.Debug("loaded .env file")
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
