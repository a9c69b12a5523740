package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"urbanincidents/internal/shared/constants"
	"urbanincidents/internal/shared/logger"
)

//go:embed scripts
var scripts embed.FS

// goose keeps dialect, base FS and logger in package state.
var gooseMu sync.Mutex

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate brings the schema up to date
	Migrate(ctx context.Context, db *gorm.DB) error
	// GetName returns the strategy name
	GetName() string
}

// GooseStrategy runs the versioned SQL scripts embedded in the binary. The
// script set is picked from the gorm dialector so one binary serves every
// supported driver.
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		logger: log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) GetName() string {
	return constants.MigrationStrategyGoose
}

func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	return s.withGoose(db, func(dir string) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			s.logger.Errorw("failed to get current version", "error", err)
			return fmt.Errorf("failed to get current version: %w", err)
		}

		s.logger.Infow("current migration status", "version", currentVersion, "scripts", dir)

		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			s.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}

		s.logger.Infow("migration completed successfully",
			"from_version", currentVersion,
			"to_version", finalVersion)
		return nil
	})
}

func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	return s.withGoose(db, func(dir string) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		for i := 0; i < steps; i++ {
			if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
				s.logger.Errorw("down migration failed", "error", err, "step", i+1)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}

		s.logger.Infow("down migration completed successfully")
		return nil
	})
}

func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	var version int64
	err := s.withGoose(db, func(dir string) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		version, err = goose.GetDBVersionContext(ctx, sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		return nil
	})
	return version, err
}

// Status prints the applied state of every script through the logger.
func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) error {
	return s.withGoose(db, func(dir string) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

// Create writes an empty SQL migration for driver into dir on disk.
func (s *GooseStrategy) Create(dir, driver, name string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, _, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{logger: s.logger})

	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	s.logger.Infow("migration created successfully", "name", name, "dir", dir)
	return nil
}

func (s *GooseStrategy) withGoose(db *gorm.DB, fn func(dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, dir, err := gooseDialect(db.Dialector.Name())
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(scripts)
	goose.SetLogger(&gooseLogger{logger: s.logger})

	return fn(dir)
}

// gooseDialect maps a gorm dialector name to the goose dialect and the
// embedded script directory.
func gooseDialect(driver string) (dialect string, dir string, err error) {
	switch driver {
	case constants.DriverMySQL:
		return "mysql", "scripts/mysql", nil
	case constants.DriverPostgres:
		return "postgres", "scripts/postgres", nil
	case constants.DriverSQLite:
		return "sqlite3", "scripts/sqlite", nil
	default:
		return "", "", fmt.Errorf("no migration scripts for driver %q", driver)
	}
}

// ScriptNames lists the embedded scripts for driver.
func ScriptNames(driver string) ([]string, error) {
	_, dir, err := gooseDialect(driver)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(scripts, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

type gooseLogger struct {
	logger logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf is reached only from goose's command-line entry points, which are
// not used here. It logs instead of exiting.
func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
