package di

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"investiq_backend/internal/platform/config"
	infradb "investiq_backend/internal/platform/db"
)

// DBConfig は設定を infradb.Config に変換します。
func DBConfig(cfg config.DBConfig) infradb.Config {
	return infradb.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		User:           cfg.User,
		Password:       cfg.Password,
		Name:           cfg.Name,
		SSLMode:        cfg.SSLMode,
		RunMigrations:  cfg.RunMigrations,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}

// OpenHistoryDB は分析履歴用のDBに接続します。
// 履歴はベストエフォートなので、無効化されている場合や接続できない場合は nil を返し、
// サーバーは履歴なしで起動を続けます。open が nil なら PostgreSQL に接続します。
func OpenHistoryDB(ctx context.Context, cfg config.DBConfig, open infradb.Opener, log zerolog.Logger) *gorm.DB {
	if cfg.Disabled {
		log.Warn().Msg("DB disabled. Analysis history is not recorded.")
		return nil
	}
	db, err := infradb.OpenDB(ctx, DBConfig(cfg), open, log)
	if err != nil {
		log.Warn().Err(err).Msg("DB unavailable. Running without analysis history.")
		return nil
	}
	return db
}
