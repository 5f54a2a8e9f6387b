// Package main runs the background conflict watcher.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eduportal/backend/config"
	"github.com/eduportal/backend/internal/bootstrap"
	"github.com/eduportal/backend/internal/storage"
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

	if cfg.Storage.Driver == config.DriverMemory {
		log.Fatal("the worker needs a shared substrate; set STORAGE_DRIVER to redis or postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}
	defer res.Close()
	if res.Redis == nil {
		log.Fatal("the worker needs redis for its job queue")
	}

	store := storage.New(res.KV, storage.WithLogger(log))
	jobQueue := queue.NewQueue(res.Redis.Client, queue.QueueConflictScans, log)
	watcher := worker.NewConflictWatcher(store, jobQueue, log)

	if _, _, err := watcher.Scan(ctx); err != nil {
		log.Fatal("initial conflict scan", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()
	log.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	<-done
	log.Info("worker stopped")
}
