package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/config"
	"github.com/ashoka0402/Skillswapv6/internal/infra/logger"
	"github.com/ashoka0402/Skillswapv6/internal/jobs/cleanup"
	pgrepo "github.com/ashoka0402/Skillswapv6/internal/repo/postgres"
	redrepo "github.com/ashoka0402/Skillswapv6/internal/repo/redis"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("init postgres for worker", zap.Error(err))
	}
	defer pool.Close()

	job := cleanup.New(
		pgrepo.NewAnnouncementRepo(pool),
		pgrepo.NewEventRepo(pool),
		cfg.Announcements.Retention,
		cfg.Worker.EventRetention,
		log,
	)

	if redisClient, err := redrepo.NewClient(ctx, redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("redis init failed, sweep results will not be broadcast", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		job.AttachPublisher(redrepo.NewAnnounceRepo(redisClient, cfg.Announcements.Channel))
	}

	log.Info("cleanup worker started", zap.Duration("interval", cfg.Worker.Interval))
	if err := job.Loop(ctx, cfg.Worker.Interval); err != nil {
		log.Fatal("cleanup worker failed", zap.Error(err))
	}
}
