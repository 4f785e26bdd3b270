// Package redis は分析履歴キャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config はRedis接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// NewRedisClient はクライアントを生成し、PINGで接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error().Err(err).Str("address", cfg.Addr()).Msg("Redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	log.Info().Str("address", cfg.Addr()).Msg("Redis connection successful")
	return rdb, nil
}
