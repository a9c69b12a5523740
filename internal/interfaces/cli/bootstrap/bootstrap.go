// Package bootstrap assembles the services behind the command line from
// configuration.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	incidentApp "urbanincidents/internal/application/incident"
	"urbanincidents/internal/application/incident/usecases"
	userApp "urbanincidents/internal/application/user"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/infrastructure/auth"
	"urbanincidents/internal/infrastructure/cache"
	"urbanincidents/internal/infrastructure/config"
	"urbanincidents/internal/infrastructure/database"
	"urbanincidents/internal/infrastructure/migration"
	"urbanincidents/internal/infrastructure/permission"
	"urbanincidents/internal/infrastructure/repository"
	"urbanincidents/internal/shared/constants"
	shareddb "urbanincidents/internal/shared/db"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

// Options are the process-wide flags shared by every command.
type Options struct {
	Env         string
	As          string
	Password    string
	AutoMigrate bool
	Output      string
}

// Output formats accepted by Print.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// App holds the wired services for the lifetime of one command.
type App struct {
	Config    *config.Config
	Logger    logger.Interface
	DB        *gorm.DB
	Incidents *incidentApp.ServiceDDD
	Users     *userApp.ServiceDDD

	closers []func() error
}

// Init loads configuration and sets up logging and the database connection.
// It is enough for commands that only touch the schema.
func Init(opts *Options) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(opts.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// New wires the incident and user services on top of Init.
func New(ctx context.Context, opts *Options) (*App, error) {
	cfg, log, err := Init(opts)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  log,
		DB:      database.Get(),
		closers: []func() error{database.Close},
	}

	if err := app.wire(ctx, opts); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, opts *Options) error {
	cfg := a.Config

	if opts.AutoMigrate {
		manager, err := migration.NewManager(cfg.Migration.Strategy, a.Logger)
		if err != nil {
			return err
		}
		if err := manager.Migrate(ctx, a.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	readCache, err := a.newReadCache(ctx)
	if err != nil {
		return err
	}

	enforcer, err := permission.NewEnforcer(a.DB, a.Logger.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := permission.InitIncidentPermissions(enforcer, a.Logger); err != nil {
		return err
	}

	hasher := auth.NewBcryptPasswordHasher(cfg.Admin.BcryptCost)
	adminHash, err := hasher.Hash(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin, err := user.NewAdmin(cfg.Admin.Email, adminHash)
	if err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	repoLogger := a.Logger.Named("repository")
	incidentRepo := cache.NewCachedIncidentRepository(
		repository.NewIncidentRepository(a.DB, repoLogger), readCache, a.Logger.Named("cache"))
	typeRepo := cache.NewCachedIncidentTypeRepository(
		repository.NewIncidentTypeRepository(a.DB, repoLogger), readCache, a.Logger.Named("cache"))
	userRepo := cache.NewCachedUserRepository(
		repository.NewUserRepository(a.DB, repoLogger), readCache, a.Logger.Named("cache"))

	retryPolicy := usecases.RetryPolicy{
		MaxAttempts: cfg.Incident.Retry.MaxAttempts,
		BaseDelay:   cfg.Incident.Retry.BaseDelay(),
		MaxDelay:    cfg.Incident.Retry.MaxDelay(),
	}

	a.Incidents = incidentApp.NewServiceDDD(
		incidentRepo,
		typeRepo,
		shareddb.NewTransactionManager(a.DB),
		enforcer,
		retryPolicy,
		a.Logger.Named("incident"),
	)
	a.Users = userApp.NewServiceDDD(userRepo, admin, hasher, a.Logger.Named("user"))

	a.Logger.Debugw("services wired",
		"cache", cfg.Cache.Driver,
		"database", cfg.Database.Driver,
		"retry_max_attempts", retryPolicy.MaxAttempts)
	return nil
}

func (a *App) newReadCache(ctx context.Context) (cache.ReadCache, error) {
	cfg := a.Config
	if cfg.Cache.Driver != constants.CacheDriverRedis {
		return cache.NewMemoryReadCache(cfg.Cache.TTL(), cfg.Cache.MaxEntries), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}

	return cache.NewRedisReadCache(client, cfg.Cache.KeyPrefix, cfg.Cache.TTL(), a.Logger.Named("cache")), nil
}

// Caller authenticates the identity named by --as/--password.
func (a *App) Caller(ctx context.Context, opts *Options) (*user.User, error) {
	if opts.As == "" {
		return nil, errors.NewUnauthorizedError("this command needs --as and --password")
	}
	return a.Users.Authenticate(ctx, opts.As, opts.Password)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// Print writes v in the requested format. YAML keys follow the json tags
// of v, so both formats describe the same document.
func Print(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch strings.ToLower(format) {
	case "", OutputJSON:
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputYAML:
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported output format %q", format))
	}
}

// Validate rejects flag values before any command runs.
func (o *Options) Validate() error {
	switch strings.ToLower(o.Output) {
	case "", OutputJSON, OutputYAML:
		return nil
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported output format %q", o.Output))
	}
}

// Write prints v using the format selected on the command line.
func (o *Options) Write(w io.Writer, v any) error {
	return Print(w, o.Output, v)
}

// Run wires the application for one command, calls fn and closes it again.
func Run(cmd *cobra.Command, opts *Options, fn func(ctx context.Context, app *App) error) error {
	app, err := New(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(cmd.Context(), app)
}
