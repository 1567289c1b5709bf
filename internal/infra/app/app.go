package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/infra/config"
	"github.com/Velroxe/Khatri-College/internal/infra/database"
	"github.com/Velroxe/Khatri-College/internal/infra/email"
	"github.com/Velroxe/Khatri-College/internal/infra/logger"
	redisinfra "github.com/Velroxe/Khatri-College/internal/infra/redis"
	"github.com/Velroxe/Khatri-College/internal/infra/security"
	postgresrepo "github.com/Velroxe/Khatri-College/internal/repository/postgres"
	redisrepo "github.com/Velroxe/Khatri-College/internal/repository/redis"
	"github.com/Velroxe/Khatri-College/internal/transport/http/middleware"
	"github.com/Velroxe/Khatri-College/internal/transport/http/routes"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	mailer, err := email.NewGmailSender(ctx, cfg.Email, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init mailer: %w", err)
	}

	var redisClient *redisinfra.Client
	var dashboardCache port.Cache
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		dashboardCache = redisrepo.NewCache(redisClient.Client(), cfg.Redis.KeyPrefix)
	}

	repos := postgresrepo.NewRepositories(pool)

	issuer := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	passwordValidator := security.DefaultPasswordValidator()

	adminAuth := usecase.NewAuthService(
		domain.KindAdmin,
		repos.Admins,
		repos.AdminRefreshTokens,
		repos.AdminOTPs,
		mailer,
		issuer,
		passwordValidator,
		cfg.JWT.RefreshTokenTTL,
		cfg.OTP.TTL,
		log,
	)
	studentAuth := usecase.NewAuthService(
		domain.KindStudent,
		repos.Students,
		repos.StudentRefreshTokens,
		repos.StudentOTPs,
		mailer,
		issuer,
		passwordValidator,
		cfg.JWT.RefreshTokenTTL,
		cfg.OTP.TTL,
		log,
	)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Services: routes.ServiceSet{
			AdminAuth:   adminAuth,
			StudentAuth: studentAuth,
			Admins:      usecase.NewAdminService(repos.Admins, log),
			Students:    usecase.NewStudentService(repos.Students, log),
			Courses:     usecase.NewCourseService(repos.Courses, log),
			Catalog:     usecase.NewCatalogService(repos.Faculties, repos.Scholars, log),
			Dashboard:   usecase.NewDashboardService(repos.Dashboard, dashboardCache, cfg.Dashboard.CacheTTL, log),
			Cleanup:     usecase.NewCleanupService(repos.AdminRefreshTokens, repos.StudentRefreshTokens, repos.AdminOTPs, repos.StudentOTPs, log),
			Contact:     usecase.NewContactService(mailer, cfg.Email.AdminContact, log),
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting college API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
