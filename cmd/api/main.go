package main

import (
	"ReaView/internal/api/config"
	"ReaView/internal/pkg/cron"
	"ReaView/internal/pkg/database"
	"ReaView/internal/pkg/logger"
	"ReaView/internal/pkg/mongo"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/wire"
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPort     = 8080
	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Error("load config failed", "err", err)
		os.Exit(1)
	}
	logger.InitLogger()

	if err := run(config.Cfg); err != nil {
		log.Error("ReaView exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("ReaView exited")
}

func run(cfg *config.Config) error {
	db, err := database.NewGormDB(&cfg.DB, cfg.Log.Level)
	if err != nil {
		return errors.Wrap(err, "connect mysql")
	}
	if err = database.Migrate(db); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err = redis.InitRedis(cfg.Redis); err != nil {
		return errors.Wrap(err, "connect redis")
	}
	defer redis.Close()

	mongoDB, err := mongo.InitMongo(cfg.Mongo)
	if err != nil {
		return errors.Wrap(err, "connect mongo")
	}
	defer mongoDB.Client().Disconnect(context.Background())

	app, err := wire.BuildApplication(db, mongoDB, cfg)
	if err != nil {
		return errors.Wrap(err, "build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if err = cron.InitCron(app.CronMgr); err != nil {
		return errors.Wrap(err, "start cron")
	}
	g.Go(func() error {
		<-ctx.Done()
		app.CronMgr.Stop()
		return nil
	})

	// 未配置 broker 时不消费 binlog，通知与海报预取随之停用
	if app.KafkaManager != nil {
		g.Go(func() error { return app.KafkaManager.Start(ctx) })
	} else {
		log.Warn("kafka brokers not configured, consumers disabled")
	}

	port := cfg.Server.Port
	if port == 0 {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
