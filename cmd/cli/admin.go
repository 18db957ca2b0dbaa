package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"consulthub/internal/auth"
	"consulthub/pkg/database"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage back-office accounts",
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(database.Config{Path: cfg.Store.Path})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}

		a, err := auth.CreateAdmin(cmd.Context(), auth.NewRepo(db), adminUsername, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", a.Username, a.ID)
		return nil
	},
}

func init() {
	adminAddCmd.Flags().StringVar(&adminUsername, "username", "", "login name (3-30 chars)")
	adminAddCmd.Flags().StringVar(&adminEmail, "email", "", "email address")
	adminAddCmd.Flags().StringVar(&adminPassword, "password", "", "password (8-72 chars)")
	for _, name := range []string{"username", "email", "password"} {
		_ = adminAddCmd.MarkFlagRequired(name)
	}

	adminCmd.AddCommand(adminAddCmd)
	rootCmd.AddCommand(adminCmd)
}
