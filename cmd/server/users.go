package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/service"
)

var (
	promoteEmail string
	promoteRole  string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change a user's role",
	Long:  `Sets the role of the user with the given email. Defaults to ADMIN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := models.ParseRole(strings.ToUpper(strings.TrimSpace(promoteRole)))
		if !ok {
			return fmt.Errorf("unknown role %q", promoteRole)
		}
		svc, closeStore, err := userService(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		user, err := svc.SetRole(cmd.Context(), strings.ToLower(strings.TrimSpace(promoteEmail)), role)
		if err != nil {
			return err
		}
		logger.Info("role updated", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := userService(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		users, err := svc.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tCREATED")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

func userService(cmd *cobra.Command) (*service.AuthService, func(), error) {
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	svc := service.NewAuthService(store, tokens, auth.NewHasher(cfg.BcryptCost), logger)
	return svc, store.Close, nil
}

func init() {
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the user to update")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(models.RoleAdmin), "role to assign (USER or ADMIN)")
	_ = promoteCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(promoteCmd, listUsersCmd)
}
