package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/sheet-store/config"
	"github.com/yourusername/sheet-store/internal/delivery/rest"
	"github.com/yourusername/sheet-store/internal/domain/entity"
)

// NewTokenCommand creates the token command, an operator tool for signing
// API tokens with JWT_SECRET.
func NewTokenCommand() *cobra.Command {
	var (
		userID string
		name   string
		admin  bool
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return errors.New("--user is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := rest.NewAuthenticator(cfg.JWTSecret).IssueToken(entity.Account{
				ID:    userID,
				Name:  name,
				Admin: admin,
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
