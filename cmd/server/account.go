package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guncad/market-server-go/internal/config"
	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/repository"
	"github.com/guncad/market-server-go/internal/service"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountStatusCmd = &cobra.Command{
	Use:   "status <user-id> <pending|active|suspended>",
	Short: "Approve or suspend an account",
	Long: "Sets the account status. Any status other than active also revokes " +
		"every session the account holds.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAccountStatus(cmd, args[0], model.UserStatus(args[1]))
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountStatusCmd)
}

func setAccountStatus(cmd *cobra.Command, userID string, status model.UserStatus) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	accounts := service.NewAccountService(
		db,
		repository.NewUserRepository(db.DB),
		repository.NewAccountIdentityRepository(db.DB),
		repository.NewSessionRepository(db.DB),
		cfg.AccountNumberPepper, cfg.AutoApproveAccounts,
	)

	user, revoked, err := accounts.SetStatus(cmd.Context(), userID, status)
	if err != nil {
		return err
	}

	cmd.Printf("account %s is now %s (%d sessions revoked)\n", user.ID, user.Status, revoked)
	return nil
}
