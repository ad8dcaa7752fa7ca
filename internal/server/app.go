// Package server assembles the reference backend: it selects the storage
// backends from the configuration, runs migrations and serves the HTTP API
// and, when configured, the gRPC endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     repomanager.RepositoryManager
	redis       *redis.Client
	userService *services.UserService
	noteService *services.NoteService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	app := &App{config: c, logger: logger}

	var opts []repomanager.Option
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			_ = app.redis.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		opts = append(opts, repomanager.WithRefreshTokens(refreshtokens.NewRedisRepository(app.redis)))
		logger.Info(ctx, "refresh tokens stored in redis", "address", c.RedisAddr)
	}

	if c.DatabaseDSN != "" {
		m, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN, opts...)
		if err != nil {
			app.closeRedis()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.manager = m
	} else {
		logger.Warn(ctx, "no database configured, using in-memory storage")
		app.manager = repomanager.NewInMemoryRepositoryManager(opts...)
	}

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app.userService = services.NewUserService(app.manager, c)
	app.noteService = services.NewNoteService(app.manager)
	return app, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until one server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.userService, app.noteService)
		return s.Run(ctx)
	})

	if app.config.EndpointAddrGRPC != "" {
		g.Go(func() error {
			s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.config.SecretKey)
			return s.Run(ctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}

func (app *App) close() {
	if app.manager != nil {
		if err := app.manager.Close(); err != nil {
			app.logger.Error(context.Background(), "closing storage", "error", err)
		}
	}
	app.closeRedis()
}

func (app *App) closeRedis() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
}
