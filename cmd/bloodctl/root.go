package main

import (
	"log/slog"

	"bloodgroup/internal/config"
	"bloodgroup/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bloodctl",
		Short: "Operator tool for the blood group prediction service",
		Long: `bloodctl runs the blood group classifier offline, searches donors,
exports the prediction log and seeds demo data.

Configuration is read from the same environment variables (and .env file)
as the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger()
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			slog.SetDefault(logger)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newDonorsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSeedCmd())

	return cmd
}

// openDB connects and migrates the configured database.
func openDB(cmd *cobra.Command) (*gorm.DB, error) {
	cfg := configFrom(cmd.Context())
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
