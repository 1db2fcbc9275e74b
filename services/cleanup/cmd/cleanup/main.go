package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"coursehub/internal/util"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
	"coursehub/services/cleanup/internal/app"
	"coursehub/services/cleanup/internal/config"
)

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	objects, err := storage.Open(ctx, storage.Config{
		Driver:    cfg.StorageDriver,
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		LocalPath: cfg.StorageLocalPath,
	})
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}
	worker, err := app.New(objects)
	if err != nil {
		log.Fatalf("failed to init worker: %v", err)
	}

	jobs, err := queue.NewRedisJobQueue(queue.RedisQueueConfig{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		Stream:     cfg.CleanupStream,
		Group:      cfg.ConsumerGroup,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("failed to init cleanup queue: %v", err)
	}
	defer jobs.Close()

	slog.Info("cleanup worker started", "stream", cfg.CleanupStream, "concurrency", cfg.Concurrency)
	if err := jobs.Run(ctx, cfg.Concurrency, worker.Handle); err != nil {
		logger.Error("worker stopped", "err", err)
	}
}
