package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"identity-api/config"
	"identity-api/internal/application/ports"
	"identity-api/internal/application/services"
	domain "identity-api/internal/domain/user"
	"identity-api/internal/infrastructure/cache"
	cacheuser "identity-api/internal/infrastructure/cache/user"
	"identity-api/internal/infrastructure/db/postgres"
	"identity-api/internal/infrastructure/db/postgres/user"
	"identity-api/internal/infrastructure/jwt"
	"identity-api/internal/infrastructure/logger"
	"identity-api/internal/infrastructure/metrics"
	"identity-api/internal/infrastructure/mq"
	"identity-api/internal/infrastructure/password"
	"identity-api/internal/interface/api/rest"
	"identity-api/internal/interface/api/rest/middleware"
	"identity-api/internal/interface/api/rest/validator"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger      *zap.Logger
	syncLogger  func()
	cfg         config.Config
	db          *pgxpool.Pool
	cache       *cache.Cache
	httpSrv     *http.Server
	router      *gin.Engine
	metrics     *metrics.Metrics
	mq          *mq.RabbitMQ
	events      ports.EventPublisher
	userRepo    domain.Repository
	hasher      *password.Hasher
	tokenIssuer *jwt.Service
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// logger
	log, syncLogger := logger.New(cfg.Log)

	a := &App{
		logger:     log,
		syncLogger: syncLogger,
		cfg:        cfg,
		metrics:    metrics.New(prometheus.DefaultRegisterer),
		events:     mq.Nop{},
	}
	if err = a.initInfrastructure(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// router
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.App.Env == gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = a.newRouter()

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) initInfrastructure(ctx context.Context) error {
	// db
	dbDsn, err := a.cfg.DBDSN()
	if err != nil {
		return fmt.Errorf("DB config error: %w", err)
	}
	a.db, err = postgres.New(ctx, a.logger, dbDsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if a.cfg.DB.AutoMigrate {
		if err = postgres.Migrate(ctx, a.logger, a.db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	a.userRepo = user.NewRepository(a.db)

	// redis
	if a.cfg.RedisEnabled() {
		a.cache = cache.New(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err = a.cache.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.userRepo = cacheuser.NewRepository(a.userRepo, a.cache, a.cfg.Redis.UserCacheTTL, a.logger)
		a.logger.Info("user cache enabled", zap.String("addr", a.cfg.Redis.Addr))
	}

	// rabbitMQ
	if a.cfg.MQEnabled() {
		rabbitDsn, err := a.cfg.AMQPDSN()
		if err != nil {
			return fmt.Errorf("RabbitMQ config error: %w", err)
		}
		a.mq = mq.New(a.cfg.MQ, a.logger)
		if err = a.mq.Connect(ctx, rabbitDsn); err != nil {
			return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
		}
		if err = a.mq.Init(); err != nil {
			return fmt.Errorf("failed init rabbitMQ: %w", err)
		}
		a.events = a.mq
	} else {
		a.logger.Info("RabbitMQ is not configured, user events are not published")
	}

	// credentials
	a.hasher, err = password.NewHasher(a.cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	a.tokenIssuer, err = jwt.New(a.cfg.Auth.JWTSecret, a.cfg.Auth.JWTAlgorithm, a.cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	return nil
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.RecoveryWithZap(a.logger, true))
	if len(a.cfg.HTTP.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  a.cfg.HTTP.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.KeyRequestID},
			ExposeHeaders: []string{middleware.KeyRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.RequestLogGin(a.logger, a.metrics))
	r.Use(middleware.RateLimit(a.cfg.HTTP.RateLimitRPS, a.cfg.HTTP.RateLimitBurst))
	r.Use(middleware.ConcurrencyLimit(a.cfg.HTTP.MaxInFlight))
	r.Use(middleware.Timeout(a.cfg.HTTP.RequestTimeout))

	return r
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("redis close", zap.Error(err))
		}
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.logger.Warn("rabbitMQ close", zap.Error(err))
		}
	}
	if a.syncLogger != nil {
		a.syncLogger()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.Addr()))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	authService := services.NewAuthService(a.userRepo, a.hasher, a.tokenIssuer, a.logger)
	userService := services.NewUserService(a.userRepo, a.hasher, a.events, a.metrics, a.logger)
	v := validator.New()

	// controllers
	rest.NewAuthController(a.router, a.logger, authService, v)
	rest.NewUserController(a.router, userService, middleware.AuthMiddleware(authService, a.logger), v, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

// Provision runs the superadmin provisioning path on the same infrastructure
// the HTTP service uses. Events are flushed before it returns.
func (a *App) Provision(ctx context.Context, in domain.NewUser) (*domain.User, bool, error) {
	p := services.NewProvisioner(a.userRepo, a.hasher, a.events, a.logger)
	if a.mq == nil {
		return p.EnsureSuperadmin(ctx, in)
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.mq.PublisherWorker(workerCtx)
	}()
	defer func() {
		stopWorker()
		<-done
	}()

	return p.EnsureSuperadmin(ctx, in)
}

func (a *App) Logger() *zap.Logger { return a.logger }
