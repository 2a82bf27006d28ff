package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/analytics"
	"github.com/frahmantamala/leave-management/internal/auth"
	authPostgres "github.com/frahmantamala/leave-management/internal/auth/postgres"
	"github.com/frahmantamala/leave-management/internal/cache"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/report"
	"github.com/frahmantamala/leave-management/internal/storage"
	"github.com/frahmantamala/leave-management/internal/transport/openapi"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Cache  *cache.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if err := d.Cache.Close(); err != nil {
		d.Logger.Error("Redis close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithOptions(config.Logging.Level, config.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	cacheClient := initCache(ctx, config.Redis, lg)
	archive := initArchive(ctx, config.Storage, lg)

	validator, err := openapi.NewValidator(ctx, api.Spec)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	if config.Bootstrap.SeedOnStartup {
		if err := bootstrapAccounts(ctx, gormDB, config, lg); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	userRepo := userPostgres.NewUserRepository(gormDB)
	submissionRepo := leavePostgres.NewSubmissionRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, auth.NewTokenStore(cacheClient), lg)
	userService := user.NewService(userRepo, config.Security.BCryptCost, lg)
	leaveService := leave.NewService(submissionRepo, lg)
	analyticsService := analytics.NewService(submissionRepo, userRepo, lg)
	reportService := report.NewService(submissionRepo, archive, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:    rest.NewHealthHandler(db, cacheClient),
		Auth:      auth.NewHandler(authService),
		Users:     user.NewHandler(userService, validator),
		Leave:     leave.NewHandler(leaveService, validator),
		Analytics: analytics.NewHandler(analyticsService),
		Reports:   report.NewHandler(reportService),
	}, rest.Options{
		AllowedOrigins: config.Server.AllowedOrigins,
		Spec:           api.Spec,
		Logger:         lg,
	})

	return &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Cache:  cacheClient,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

// initCache returns nil when redis is disabled; an unreachable redis is logged and kept,
// the client treats connection errors as cache misses.
func initCache(ctx context.Context, cfg internal.RedisConfig, lg *slog.Logger) *cache.Client {
	client := cache.New(cfg)
	if !client.Enabled() {
		lg.Info("redis disabled, logout does not revoke tokens")
		return nil
	}

	pingCtx, cancel := internal.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		lg.Warn("redis unreachable", "addr", cfg.Addr, "error", err)
	}
	return client
}

// initArchive returns nil when object storage is disabled or unusable; exports still work without it.
func initArchive(ctx context.Context, cfg internal.StorageConfig, lg *slog.Logger) storage.ObjectStorage {
	if !cfg.Enabled {
		return nil
	}

	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		lg.Warn("export archive disabled", "error", err)
		return nil
	}

	bucketCtx, cancel := internal.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(bucketCtx); err != nil {
		lg.Warn("export archive disabled, bucket unavailable", "bucket", cfg.Bucket, "error", err)
		return nil
	}
	return client
}

func bootstrapAccounts(ctx context.Context, db *gorm.DB, cfg *internal.Config, lg *slog.Logger) error {
	count, err := userPostgres.NewUserRepository(db).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	created, err := seedAccounts(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	lg.Info("bootstrap accounts created", "created", created)
	return nil
}
