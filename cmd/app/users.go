package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

func usersCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the users that can be invited to projects",
	}
	cmd.AddCommand(usersAddCmd(configPath))
	return cmd
}

func usersAddCmd(configPath *string) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user, or rename an existing one",
		Example: `  taskboard users add --email bob@example.com --name Bob`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := openStore(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := store.UpsertUser(cmd.Context(), model.User{Email: email, Name: name})
			if err != nil {
				return fmt.Errorf("add user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Email, u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
