package main

import (
	"context"
	"fmt"
	"os"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/logger"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/seed"
	"poll-service/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if err := rootCmd(cfg, log).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func rootCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the poll database",
		SilenceUsage: true,
	}
	root.AddCommand(analyticsCmd(cfg, log), superuserCmd(cfg, log))
	return root
}

func analyticsCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Seed users, polls, views and votes for analytics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cfg, log)
			if err != nil {
				return err
			}
			log.Info("Starting analytics seeding...")
			res, err := seed.New(db, nil, log).Analytics(cmd.Context(), opts)
			if err != nil {
				return err
			}
			log.Info("Analytics seeding completed successfully!",
				zap.Int("users", res.Users),
				zap.Int("polls", res.Polls),
				zap.Int("views", res.Views),
				zap.Int("votes", res.Votes),
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 10, "Number of users to create")
	cmd.Flags().IntVar(&opts.Polls, "polls", 5, "Number of polls to create")
	cmd.Flags().IntVar(&opts.Votes, "votes", 100, "Approximate number of votes to generate")
	cmd.Flags().IntVar(&opts.Views, "views", 200, "Approximate number of views to generate")
	return cmd
}

func superuserCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "superuser",
		Short: "Create a superuser from SUPERUSER_EMAIL and SUPERUSER_PASSWORD if none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Superuser.Email == "" || cfg.Superuser.Password == "" {
				log.Warn("SUPERUSER_EMAIL or SUPERUSER_PASSWORD not set. Skipping.")
				return nil
			}
			db, err := open(cfg, log)
			if err != nil {
				return err
			}
			users := services.NewUserService(postgres.NewUserRepository(db), cfg.JWT.Secret, cfg.JWT.ExpirationTime, log)
			return createSuperuser(cmd.Context(), users, cfg.Superuser, log)
		},
	}
}

func createSuperuser(ctx context.Context, users *services.UserService, su config.SuperuserConfig, log *zap.Logger) error {
	exists, err := users.HasSuperuser(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Info("Superuser already exists. Skipping.")
		return nil
	}
	if _, err := users.CreateSuperuser(ctx, su.Email, su.Password); err != nil {
		return fmt.Errorf("error creating superuser: %w", err)
	}
	log.Info("Superuser created successfully", zap.String("email", su.Email))
	return nil
}
