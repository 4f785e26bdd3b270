package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"investiq_backend/internal/app/di"
	"investiq_backend/internal/app/router"
	"investiq_backend/internal/feature/riskanalysis/transport/handler"
	"investiq_backend/internal/platform/config"
	"investiq_backend/internal/platform/logger"
	infraredis "investiq_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// ロガー生成前なので最小限の出力
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db（接続できなくても履歴なしで起動する）
	db := di.OpenHistoryDB(ctx, cfg.DB, nil, logger.Component(log, "db"))

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
		}, logger.Component(log, "redis"))
		if err != nil {
			log.Warn().Msg("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close Redis client")
				}
			}()
		}
	}

	// Price source / classifier / history
	source, err := di.NewPriceSource(cfg.Provider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build price source")
	}
	classifier := di.LoadClassifier(cfg.ModelPath, logger.Component(log, "model"))
	history := di.NewHistoryRepository(db, rdb, cfg.Redis.HistoryCacheTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Usecase
	riskUC := di.NewAnalyzeUsecase(di.Deps{
		Source:     source,
		Classifier: classifier,
		History:    history,
		Registerer: reg,
		Logger:     log,
	})

	// ルータ生成
	r := router.NewRouter(router.Config{
		Risk:             handler.NewRiskHandler(riskUC),
		ModelLoaded:      func() bool { return classifier != nil },
		JWTSecret:        cfg.JWTSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Gatherer:         reg,
		Logger:           logger.Component(log, "http"),
	})

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. /api is not protected.")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("provider", source.Name()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
