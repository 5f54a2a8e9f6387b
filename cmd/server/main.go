// Package main runs the course registration HTTP server with its change feed and graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eduportal/backend/config"
	"github.com/eduportal/backend/internal/auth"
	"github.com/eduportal/backend/internal/bootstrap"
	"github.com/eduportal/backend/internal/realtime"
	"github.com/eduportal/backend/internal/server"
	"github.com/eduportal/backend/internal/storage"
	"github.com/eduportal/backend/internal/validation"
	"github.com/eduportal/backend/internal/worker"
	"github.com/eduportal/backend/pkg/logger"
	"github.com/eduportal/backend/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := validation.RegisterGin(); err != nil {
		log.Fatal("register validators", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	res, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}
	defer res.Close()

	var (
		hub      *realtime.Hub
		enqueuer storage.Notifier
	)
	if res.Redis != nil {
		bridge := realtime.NewRedisPubSub(res.Redis.Client, cfg.Realtime.Channel, log)
		hub = realtime.NewHub(log, bridge)
		if err := hub.Listen(ctx, bridge); err != nil {
			log.Fatal("subscribe change feed", zap.Error(err))
		}
		enqueuer = worker.NewEnqueuer(queue.NewQueue(res.Redis.Client, queue.QueueConflictScans, log), log)
	} else {
		hub = realtime.NewHub(log, nil)
	}

	store := storage.New(res.KV,
		storage.WithLogger(log),
		storage.WithNotifier(storage.FanOut(hub, enqueuer)),
	)
	if err := store.Initialize(ctx); err != nil {
		log.Fatal("initialize storage", zap.Error(err))
	}

	router := server.NewRouter(server.Deps{
		Store:          store,
		JWT:            auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours),
		Hub:            hub,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
