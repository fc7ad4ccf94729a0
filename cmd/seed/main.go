package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sation/internal/auth"
	"sation/internal/config"
	"sation/internal/repository"
	"sation/internal/seed"
	serviceDocsys "sation/internal/service/docsystem"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	ownerID     string
	fixturePath string
	reset       bool
	tokenTTL    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Set up, reset and seed the document store",
	Example: `seed run --owner <user-id>
seed run --owner <user-id> --fixture docs.yaml --reset
seed schema
seed clear
seed drop
seed token --owner <user-id>`,
	SilenceUsage: true,
}

func main() {
	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&ownerID, "owner", "", "owner id the documents belong to (defaults to DEV_USER_ID)")
	runCmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "YAML fixture file (defaults to the built-in workspace)")
	runCmd.Flags().BoolVar(&reset, "reset", false, "clear all documents before seeding")

	tokenCmd.Flags().StringVar(&ownerID, "owner", "", "token subject (defaults to DEV_USER_ID)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(runCmd, schemaCmd, clearCmd, dropCmd, tokenCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create the fixture documents for one owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		owner, err := resolveOwner(cfg)
		if err != nil {
			return err
		}
		if reset {
			if err := guardProduction(cfg, "--reset"); err != nil {
				return err
			}
		}

		fixture, err := loadFixture()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		backend, err := repository.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		if reset {
			logger.Warn("clearing existing documents", "driver", backend.Driver)
			if err := backend.Clear(ctx); err != nil {
				return err
			}
		}

		svc := serviceDocsys.SetupServices(backend.Documents, backend.TxManager, logger)
		seeder := seed.NewSeeder(svc.Documents, svc.Archive, logger)

		logger.Info("seeding documents", "owner_id", owner, "documents", fixture.Count())
		result, err := seeder.Apply(ctx, owner, fixture)
		if err != nil {
			return err
		}

		logger.Info("seeding complete", "created", result.Created, "archived", result.Archived)
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()

		// Opening a backend applies migrations (sqlite) or EnsureSchema (postgres)
		backend, err := repository.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		logger.Info("schema ready", "driver", backend.Driver)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document but keep the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return destructive(cmd.Context(), "clear", func(ctx context.Context, b *repository.Backend) error {
			return b.Clear(ctx)
		})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop and recreate the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return destructive(cmd.Context(), "drop", func(ctx context.Context, b *repository.Backend) error {
			return b.Drop(ctx)
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an HS256 bearer token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := setup()
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		owner, err := resolveOwner(cfg)
		if err != nil {
			return err
		}

		token, err := auth.IssueHMACToken(cfg.JWTSecret, owner, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func setup() (*config.Config, *slog.Logger) {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Environment, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger
}

func resolveOwner(cfg *config.Config) (string, error) {
	if ownerID != "" {
		return ownerID, nil
	}
	if cfg.DevUserID != "" {
		return cfg.DevUserID, nil
	}
	return "", errors.New("--owner is required when DEV_USER_ID is not set")
}

func loadFixture() (*seed.Fixture, error) {
	if fixturePath == "" {
		return seed.DefaultFixture()
	}
	return seed.LoadFile(fixturePath)
}

// guardProduction blocks destructive operations in production
func guardProduction(cfg *config.Config, op string) error {
	if cfg.Environment == "prod" {
		return fmt.Errorf("BLOCKED: cannot run %s in production environment", op)
	}
	return nil
}

func destructive(ctx context.Context, op string, fn func(context.Context, *repository.Backend) error) error {
	cfg, logger := setup()
	if err := guardProduction(cfg, op); err != nil {
		return err
	}

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := fn(ctx, backend); err != nil {
		return err
	}
	logger.Info(op+" complete", "driver", backend.Driver, "table_prefix", cfg.TablePrefix)
	return nil
}
