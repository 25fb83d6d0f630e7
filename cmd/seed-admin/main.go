package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/StudyBeacon/physics-learn/internal/models"
	"github.com/StudyBeacon/physics-learn/internal/repository"
	"github.com/StudyBeacon/physics-learn/internal/service"
	"github.com/StudyBeacon/physics-learn/pkg/config"
	"github.com/StudyBeacon/physics-learn/pkg/database"
	"github.com/StudyBeacon/physics-learn/pkg/logger"
)

type adminSeeder interface {
	EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error)
}

type seedOptions struct {
	name     string
	email    string
	password string
}

func main() {
	if err := newRootCmd(connectSeeder).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command; connect is deferred until flags validate so
// --help never touches the database.
func newRootCmd(connect func() (adminSeeder, func(), error)) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:          "seed-admin",
		Short:        "Create the admin account or promote an existing user",
		Long:         "Creates an admin user with the given credentials. An existing account with the same email is promoted to admin and its password reset.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.email) == "" || opts.password == "" {
				return errors.New("--email and --password are required")
			}
			seeder, closeFn, err := connect()
			if err != nil {
				return err
			}
			defer closeFn()
			return runSeed(cmd, seeder, opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (min 6 characters)")
	cmd.Flags().StringVar(&opts.name, "name", "Administrator", "display name")
	return cmd
}

func runSeed(cmd *cobra.Command, seeder adminSeeder, opts *seedOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	user, created, err := seeder.EnsureAdmin(ctx, opts.name, opts.email, opts.password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		cmd.Printf("created admin %s (%s)\n", user.Email, user.ID)
	} else {
		cmd.Printf("promoted %s (%s) to admin\n", user.Email, user.ID)
	}
	return nil
}

func connectSeeder() (adminSeeder, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	svc := service.NewUserService(repository.NewUserRepository(db), validator.New(), logr)
	return svc, func() {
		_ = db.Close()
		_ = logr.Sync()
	}, nil
}

