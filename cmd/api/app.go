package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/comitanigiacomo/kanso-kcal/docs"
	"github.com/comitanigiacomo/kanso-kcal/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-kcal/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-kcal/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-kcal/internal/config"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/workers"
	"github.com/comitanigiacomo/kanso-kcal/internal/platform/metrics"
)

type repositories struct {
	users    domain.UserRepository
	logs     domain.DailyLogRepository
	profiles domain.ProfileRepository
	stats    domain.StatsRepository
}

// app owns every long-lived dependency of the API process.
type app struct {
	router *gin.Engine
	worker *workers.StatsWorker
	db     *sqlx.DB
	redis  *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock services.Clock) (*app, error) {
	a := &app{}
	m := metrics.Default()

	var repos repositories
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Info("Using in-memory storage")
		repos = repositories{
			users:    repository.NewInMemoryUserRepository(),
			logs:     repository.NewInMemoryDailyLogRepository(),
			profiles: repository.NewInMemoryProfileRepository(),
			stats:    repository.NewInMemoryStatsRepository(),
		}
	default:
		db, err := connectPostgres(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		a.db = db
		repos = repositories{
			users:    repository.NewPostgresUserRepository(db),
			logs:     repository.NewPostgresDailyLogRepository(db),
			profiles: repository.NewPostgresProfileRepository(db),
			stats:    repository.NewPostgresStatsRepository(db),
		}
	}

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without snapshot cache", "error", err)
		} else {
			logger.Info("Redis connected, snapshot cache enabled")
			a.redis = rdb
			repos.stats = repository.NewCachedStatsRepository(repos.stats, rdb, m)
		}
	}

	statsService := services.NewStatsService(repos.logs, repos.profiles, repos.stats, clock, cfg.Timezone, cfg.StatsWindowDays)
	a.worker = workers.NewStatsWorker(statsService, cfg.StatsQueueSize, m)

	authService := services.NewAuthService(repos.users)
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration, repos.users)
	intakeService := services.NewIntakeService(repos.logs, a.worker, clock, cfg.Timezone)
	profileService := services.NewProfileService(repos.profiles, a.worker, clock)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService, tokenService),
		ProfileHandler: adapterHTTP.NewProfileHandler(profileService),
		IntakeHandler:  adapterHTTP.NewIntakeHandler(intakeService),
		StatsHandler:   adapterHTTP.NewStatsHandler(statsService),
		TokenService:   tokenService,
		DB:             a.db,
		Redis:          a.redis,
		Metrics:        m,
		Logger:         logger,
		RateLimit:      cfg.RateLimitPerMinute,
		StartTime:      time.Now(),
	})

	return a, nil
}

func connectPostgres(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("Connecting to database...", "host", cfg.Host, "name", cfg.Name)

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repository.Migrate(migrateCtx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected successfully.")
	return db, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
