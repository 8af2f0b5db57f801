package main

import (
	"fmt"

	"github.com/spf13/cobra"

	auth "github.com/mind-engage/mindengage-quizsheets/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quizsheets/internal/config"
	"github.com/mind-engage/mindengage-quizsheets/internal/rbac"
)

func newTokenCmd() *cobra.Command {
	var sub, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for automation (signed with AUTH_HMAC_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rbac.Default().Known(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			tok, err := auth.NewAuthService(cfg.AuthHMACSecret).IssueJWT(sub, role)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "automation", "Token subject")
	cmd.Flags().StringVar(&role, "role", "operator", "Role: viewer, operator or admin")
	return cmd
}
