package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/schoolcore/internal/app/auth"
	appControllers "github.com/yigit/schoolcore/internal/app/controllers"
	"github.com/yigit/schoolcore/internal/app/jobs"
	appMigrations "github.com/yigit/schoolcore/internal/app/migrations"
	appRepos "github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/app/repositories/memory"
	appRoutes "github.com/yigit/schoolcore/internal/app/routes"
	appServices "github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/config"
	"github.com/yigit/schoolcore/internal/db"
	appMiddleware "github.com/yigit/schoolcore/internal/middleware"
	pkgAuth "github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	LateFineJob    *jobs.LateFineJob // nil when the job is disabled
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return database, nil
}

// SetupRepositories picks the storage driver. The returned close func releases it.
func SetupRepositories(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		return memory.NewRepositories(memory.NewStore()), func() {}, nil
	default:
		database, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, nil, err
		}
		return appRepos.NewPostgresRepositories(database), database.Close, nil
	}
}

// BuildDependencies initializes services, controllers and middleware over repos.
func BuildDependencies(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AuthzService = appAuth.NewAuthorizationService(repos.Students, repos.Teachers)

	deps.Services = appServices.NewServices(repos, pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost))
	deps.Controllers = appControllers.NewControllers(deps.Services, deps.AuthzService)

	if cfg.Database.SeedDefaults {
		if _, err := seed.CreateDefaultData(ctx, deps.Services.Class, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	if cfg.Ledger.LateFineJobEnabled {
		deps.LateFineJob = jobs.NewLateFineJob(deps.Services.FeeLedger, cfg.Ledger.LateFineSchedule)
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterBindingRules(); err != nil {
		return nil, fmt.Errorf("failed to register binding rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}

// WithCORS wraps handler with the configured cross-origin policy
func WithCORS(cfg *config.Config, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", appMiddleware.RequestIDHeader},
		ExposedHeaders:   []string{appMiddleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(handler)
}
