package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"businessathi/internal/config"
	"businessathi/internal/service"
)

func newTokenCmd(global *globalOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for calling the API locally",
		Long: `Issue a signed access token for --user using the configured JWT secret.
Intended for local development and smoke tests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := global.userID()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			tok, err := service.NewAuthService(cfg.JWT).IssueToken(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	return cmd
}
