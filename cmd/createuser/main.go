package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/potatomail/potatomail/internal/auth"
	"github.com/potatomail/potatomail/internal/config"
	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

var (
	flagEmail    string
	flagName     string
	flagPassword string
)

var rootCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Provision a PotatoMail dashboard user",
	RunE:  runCreate,
}

func init() {
	rootCmd.Flags().StringVar(&flagEmail, "email", "", "user email address (required)")
	rootCmd.Flags().StringVar(&flagName, "name", "", "display name (required)")
	rootCmd.Flags().StringVar(&flagPassword, "password", "", "login password (required)")
	rootCmd.MarkFlagRequired("email")
	rootCmd.MarkFlagRequired("name")
	rootCmd.MarkFlagRequired("password")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	if _, err := mail.ParseAddress(flagEmail); err != nil {
		return fmt.Errorf("invalid email address: %s", flagEmail)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := auth.ValidatePassword(flagPassword, cfg.Auth.Password.MinLength); err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(flagPassword, auth.ParamsFromConfig(cfg.Auth.Password))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        flagEmail,
		Name:         flagName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("a user with email %s already exists", flagEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user:\n  ID:    %s\n  Email: %s\n  Name:  %s\n", user.ID, user.Email, user.Name)
	return nil
}
