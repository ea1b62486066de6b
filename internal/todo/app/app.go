package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/todolist/internal/todo/http"
	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/internal/todo/store/drivers/postgres"
	"github.com/aussiebroadwan/todolist/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/todolist/internal/todo/telegram"
	"github.com/aussiebroadwan/todolist/pkg/cryptox"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the todolist service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	keys *Keys

	accountService      *service.AccountService
	tokenService        *service.TokenService
	boardService        *service.BoardService
	categoryService     *service.CategoryService
	goalService         *service.GoalService
	commentService      *service.CommentService
	telegramService     *service.TelegramService
	housekeepingService *service.HousekeepingService
	botService          *service.BotService // nil without BOT_TOKEN

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "todolist",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret != "" {
		cryptox.SetPepper(cfg.SessionSecret)
	} else {
		cryptox.SetPepperPath(cfg.PepperFile)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	app.initServices()

	if err := app.initBot(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	if app.botService != nil {
		app.botService.Start()
	}

	app.logger.Info("todolist starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the server, then the workers, then closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down todolist...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// The bot finishes its in-flight poll, which can take the whole timeout
	if app.botService != nil {
		if err := app.botService.Stop(ctx); err != nil {
			app.logger.Warn("telegram bot did not stop in time", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("todolist stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db     store.Store
		err    error
		driver = "sqlite"
	)
	if app.cfg.UsesPostgres() {
		driver = "postgres"
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	} else {
		db, err = sqlite.NewStore(app.cfg.DatabaseURL)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", driver, err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", driver)
	return nil
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:      app.db,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.tokenService = &service.TokenService{
		Accounts: app.accountService,
		Signer:   app.keys.Signer,
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.AccessTokenTTL,
	}

	app.boardService = &service.BoardService{Store: app.db}
	app.categoryService = &service.CategoryService{Store: app.db}
	app.goalService = &service.GoalService{Store: app.db}
	app.commentService = &service.CommentService{Store: app.db}
	app.telegramService = &service.TelegramService{
		Store:   app.db,
		CodeTTL: app.cfg.TelegramCodeTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initBot connects to Telegram when a bot token is configured.
func (app *Application) initBot() error {
	if app.cfg.BotToken == "" {
		app.logger.Info("telegram bot disabled, BOT_TOKEN not set")
		return nil
	}

	client, err := telegram.NewClient(telegram.Config{
		Token:       app.cfg.BotToken,
		Endpoint:    app.cfg.TelegramAPIEndpoint,
		PollTimeout: time.Duration(app.cfg.TelegramPollTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect telegram bot: %w", err)
	}

	app.telegramService.Messenger = client
	app.botService = service.NewBotService(
		client,
		app.telegramService,
		app.goalService,
		app.categoryService,
		app.logger,
		app.cfg.TelegramPollTimeout,
	)

	app.logger.Info("telegram bot connected", "username", client.Username())
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CookieSecure = app.cfg.CookieSecure
	router.AccountService = app.accountService
	router.TokenService = app.tokenService
	router.BoardService = app.boardService
	router.CategoryService = app.categoryService
	router.GoalService = app.goalService
	router.CommentService = app.commentService
	router.TelegramService = app.telegramService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
