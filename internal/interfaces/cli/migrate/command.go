package migrate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"urbanincidents/internal/infrastructure/database"
	"urbanincidents/internal/infrastructure/migration"
	"urbanincidents/internal/interfaces/cli/bootstrap"
	"urbanincidents/internal/shared/logger"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	var strategyName string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations and seed the default incident types.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer database.Close()

			if strategyName == "" {
				strategyName = cfg.Migration.Strategy
			}
			log.Infow("running up migrations", "environment", cfg.Environment, "strategy", strategyName)

			manager, err := migration.NewManager(strategyName, log)
			if err != nil {
				return err
			}
			if err := manager.Migrate(cmd.Context(), database.Get()); err != nil {
				log.Errorw("migration failed", "error", err)
				return fmt.Errorf("migration failed: %w", err)
			}

			log.Infow("migrations completed successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "", "Migration strategy (goose, auto); defaults to migration.strategy")

	return cmd
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGoose(opts, func(ctx context.Context, strategy *migration.GooseStrategy, log logger.Interface) error {
				log.Infow("running down migrations", "steps", steps)
				if err := strategy.MigrateDown(ctx, database.Get(), steps); err != nil {
					log.Errorw("down migration failed", "error", err)
					return fmt.Errorf("down migration failed: %w", err)
				}
				log.Infow("down migration completed successfully")
				return nil
			})(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGoose(opts, func(ctx context.Context, strategy *migration.GooseStrategy, log logger.Interface) error {
				version, err := strategy.GetVersion(ctx, database.Get())
				if err != nil {
					log.Errorw("failed to get migration version", "error", err)
					return fmt.Errorf("failed to get migration version: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nMigration Status:\n")
				fmt.Fprintf(out, "  Environment:     %s\n", opts.Env)
				fmt.Fprintf(out, "  Current Version: %d\n", version)

				if err := strategy.Status(ctx, database.Get()); err != nil {
					log.Errorw("failed to get detailed status", "error", err)
					return fmt.Errorf("failed to get detailed status: %w", err)
				}
				return nil
			})(cmd.Context())
		},
	}
}

func newCreateCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		name   string
		driver string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create an empty goose SQL migration in the scripts directory of one database driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger()

			target := dir
			if target == "" {
				target = filepath.Join("internal", "infrastructure", "migration", "scripts", driver)
			}

			if err := migration.NewGooseStrategy(log).Create(target, driver, name); err != nil {
				log.Errorw("failed to create migration", "error", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&driver, "driver", "sqlite", "Database driver the migration targets (mysql, postgres, sqlite)")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into (default: the driver's scripts directory)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func withGoose(
	opts *bootstrap.Options,
	fn func(ctx context.Context, strategy *migration.GooseStrategy, log logger.Interface) error,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, log, err := bootstrap.Init(opts)
		if err != nil {
			return err
		}
		defer database.Close()

		return fn(ctx, migration.NewGooseStrategy(log), log)
	}
}
