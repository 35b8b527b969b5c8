// Package server wires the authkeeper components together and runs the gRPC
// endpoint until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/guard"
	"github.com/dmitrijs2005/authkeeper/internal/server/password"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/validation"

	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	authService *services.AuthService
	guard       *guard.Guard
}

// NewApp opens storage, applies migrations and builds the service graph.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	repos, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := password.NewBcryptHasher(c.PasswordHashCost)

	as := services.NewAuthService(
		repos.Users(),
		repos.RefreshTokens(),
		issuer,
		hasher,
		c.RefreshTokenValidityDuration,
		logger,
	)

	return &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		authService: as,
		guard:       guard.New(issuer, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.guard, validation.New())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"backend", app.config.StorageBackend,
		"redis_refresh_tokens", app.config.RedisAddr != "")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
