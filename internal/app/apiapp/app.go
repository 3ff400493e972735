package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/config"
	s3infra "github.com/ashoka0402/Skillswapv6/internal/infra/s3"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
	redrepo "github.com/ashoka0402/Skillswapv6/internal/repo/redis"
	adminsvc "github.com/ashoka0402/Skillswapv6/internal/services/admin"
	analyticsvc "github.com/ashoka0402/Skillswapv6/internal/services/analytics"
	announcesvc "github.com/ashoka0402/Skillswapv6/internal/services/announcements"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	mediasvc "github.com/ashoka0402/Skillswapv6/internal/services/media"
	profilesvc "github.com/ashoka0402/Skillswapv6/internal/services/profiles"
	ratesvc "github.com/ashoka0402/Skillswapv6/internal/services/rate"
	reputationsvc "github.com/ashoka0402/Skillswapv6/internal/services/reputation"
	statssvc "github.com/ashoka0402/Skillswapv6/internal/services/stats"
	swapsvc "github.com/ashoka0402/Skillswapv6/internal/services/swaps"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redrepo.NewClient(ctx, redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, avatars disabled", zap.Error(err))
	} else {
		s3Client = c
	}

	userRepo := pgrepo.NewUserRepo(pool)
	swapRepo := pgrepo.NewSwapRepo(pool)
	announcementRepo := pgrepo.NewAnnouncementRepo(pool)
	badgeRepo := pgrepo.NewBadgeRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	announceRepo := redrepo.NewAnnounceRepo(redisClient, cfg.Announcements.Channel)

	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, pool, fn)
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, userRepo, sessionRepo, cfg.Auth.RefreshTTL, cfg.Auth.AdminTOTPSecret)
	statsService := statssvc.NewService(swapRepo, userRepo)
	reputationService := reputationsvc.NewService(userRepo, badgeRepo, statsService, runTx)
	profileService := profilesvc.NewService(userRepo, reputationService)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.SwapCreatePerMinute, cfg.Limits.SwapCreatePer10Sec)
	analyticsService := analyticsvc.NewService(eventRepo, analyticsvc.Config{MaxBatchSize: 100}, log)
	swapService := swapsvc.NewService(swapsvc.Dependencies{
		Swaps:   swapRepo,
		Users:   userRepo,
		Rewards: reputationService,
		Stats:   statsService,
		Limiter: rateLimiter,
		Events:  analyticsService,
		RunTx:   runTx,
	})
	announcementService := announcesvc.NewService(announcementRepo, announceRepo, log)
	hub := announcesvc.NewHub(log)
	adminService := adminsvc.NewService(userRepo, swapRepo, sessionRepo, log)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(userRepo, mediaStorage, reputationService)

	// Fan redis announcement updates out to connected websocket clients.
	go func() {
		if err := announceRepo.Subscribe(ctx, hub.Broadcast); err != nil {
			log.Warn("announcement subscription ended", zap.Error(err))
		}
	}()

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		ProfileService:      profileService,
		SwapService:         swapService,
		StatsService:        statsService,
		ReputationService:   reputationService,
		AnnouncementService: announcementService,
		AnnouncementHub:     hub,
		AdminService:        adminService,
		MediaService:        mediaService,
		AnalyticsService:    analyticsService,
		Logger:              log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
