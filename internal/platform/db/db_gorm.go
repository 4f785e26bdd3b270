// Package db は分析履歴を保存するPostgreSQLへの接続を提供します。
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	riskadapters "investiq_backend/internal/feature/riskanalysis/adapters"
)

// Config はデータベース接続設定です。
type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
	// ConnectTimeout は接続再試行の上限です。0 なら60秒。
	ConnectTimeout time.Duration
	// RetryInterval は再試行の間隔です。0 なら3秒。
	RetryInterval time.Duration
}

// Opener opens a gorm connection for a DSN. Tests replace it.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// PostgresOpener は gorm の postgres ドライバで接続します。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// ConnectWithRetry はコンテナ起動直後などDBが未起動の場合に備え、timeout まで interval 間隔で再試行します。
// 失敗した場合は最後の接続エラーを返します。
func ConnectWithRetry(ctx context.Context, dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		db      *gorm.DB
		lastErr error
	)
	operation := func() error {
		var err error
		db, err = open(dsn)
		if err != nil {
			lastErr = err
		}
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, fmt.Errorf("db connect failed after %s: %w", timeout, lastErr)
	}
	return db, nil
}

// Migrate は分析履歴テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&riskadapters.AnalysisModel{})
}

// OpenDB はDBへ接続し、設定に応じてマイグレーションを実行します。
// open が nil の場合は PostgresOpener を使います。
func OpenDB(ctx context.Context, cfg Config, open Opener, log zerolog.Logger) (*gorm.DB, error) {
	if open == nil {
		open = PostgresOpener
	}
	timeout, interval := cfg.ConnectTimeout, cfg.RetryInterval
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}

	db, err := ConnectWithRetry(ctx, BuildDSN(cfg), timeout, interval, func(dsn string) (*gorm.DB, error) {
		db, err := open(dsn)
		if err != nil {
			log.Warn().Err(err).Msg("DB connect failed, retrying")
		}
		return db, err
	})
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		log.Info().Msg("database migrations applied")
	}
	return db, nil
}
