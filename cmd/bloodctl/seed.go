package main

import (
	"fmt"

	"bloodgroup/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin account and demo donors",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd)
			if err != nil {
				return err
			}

			summary, err := seed.Run(cmd.Context(), db, opts)
			if err != nil {
				return err
			}

			if summary.AdminCreated {
				fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s\n", opts.AdminEmail)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", opts.AdminEmail)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "donors created: %d\n", summary.Donors)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@bloodgroup.local", "admin account email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "admin123", "admin account password")
	cmd.Flags().IntVar(&opts.Donors, "donors", 20, "number of demo donors")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete users, predictions and contact messages first")

	return cmd
}
