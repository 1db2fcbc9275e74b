package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"coursehub/internal/usertoken"
	"coursehub/internal/util"
	"coursehub/pkg/cache"
	"coursehub/pkg/events"
	"coursehub/pkg/media"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
	"coursehub/pkg/store"
	"coursehub/services/course/internal/app"
	"coursehub/services/course/internal/config"
	"coursehub/services/course/internal/server"
)

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := app.Config{SpoolDir: cfg.SpoolDir}

	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		appCfg.Store = store.NewMemoryStore()
	default:
		gormStore, err := store.NewGormStore(cfg.DatabaseURL, store.WithMaxOpenConns(cfg.MaxOpenConns))
		if err != nil {
			log.Fatalf("failed to init postgres store: %v", err)
		}
		defer gormStore.Close()
		appCfg.Store = gormStore
	}

	objects, err := storage.Open(ctx, storage.Config{
		Driver:     cfg.StorageDriver,
		Endpoint:   cfg.MinioEndpoint,
		AccessKey:  cfg.MinioAccessKey,
		SecretKey:  cfg.MinioSecretKey,
		Bucket:     cfg.MinioBucket,
		UseSSL:     cfg.MinioUseSSL,
		PublicURL:  cfg.MediaPublicURL,
		PublicRead: cfg.MinioPublicRead,
		LocalPath:  cfg.StorageLocalPath,
	})
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}
	appCfg.Objects = objects

	prober, err := media.NewFFprobe(cfg.FFprobePath, cfg.ProbeTimeout())
	if err != nil {
		log.Fatalf("failed to init media prober: %v", err)
	}
	appCfg.Prober = prober

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		appCfg.Cache = cache.NewCourseCache(rdb, "coursehub", cfg.CacheTTL())
		cleanup, err := queue.NewRedisJobQueue(queue.RedisQueueConfig{
			Client: rdb,
			Stream: cfg.CleanupStream,
			Group:  cfg.ConsumerGroup,
		})
		if err != nil {
			log.Fatalf("failed to init cleanup queue: %v", err)
		}
		appCfg.Cleanup = cleanup
	} else {
		logger.Warn("redis not configured; listing cache disabled and media is deleted inline")
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("failed to init event publisher: %v", err)
		}
		defer publisher.Close()
		appCfg.Events = publisher
	}

	appCore, err := app.New(appCfg)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	tokenVerifier, err := usertoken.NewVerifier(usertoken.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		log.Fatalf("failed to init token verifier: %v", err)
	}

	srvCfg := server.Config{
		App:            appCore,
		TokenVerifier:  tokenVerifier,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	// Local media is served by this process unless an external URL fronts it.
	if local, ok := objects.(*storage.FileStore); ok {
		if prefix := cfg.MediaPublicURL; prefix == "" || strings.HasPrefix(prefix, "/") {
			srvCfg.MediaDir = local.Root()
			srvCfg.MediaPrefix = prefix
		}
	}
	httpServer, err := server.New(srvCfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("course server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
	}
}
