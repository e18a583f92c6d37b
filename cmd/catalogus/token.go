package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/catalogus/catalogus-backend/internal/auth"
	"github.com/catalogus/catalogus-backend/internal/domain"
)

// newTokenCmd issues an access token signed with the configured secret.
// Intended for local development and smoke tests.
func newTokenCmd(load configLoader) *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user-id: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
			token, err := jwt.GenerateAccessToken(id, domain.UserRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "user UUID to embed in the token")
	cmd.Flags().StringVar(&role, "role", string(domain.UserRoleUser), "user or admin")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
