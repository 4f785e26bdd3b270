// Package config はアプリケーション設定を環境変数（と任意の .env ファイル）から読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config はサーバーとCLIが共有する設定です。
type Config struct {
	HTTPAddr  string `default:":8080" validate:"required"`
	LogLevel  string `default:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `default:"json" validate:"oneof=json console"`
	ModelPath string `default:"models/stock_risk_model.yaml" validate:"required"`

	// JWTSecret が設定されている場合のみ /api をBearerトークンで保護します。
	JWTSecret string
	// CORSAllowOrigins はカンマ区切りの許可オリジンです。"*" は全オリジンを許可します。
	CORSAllowOrigins string `default:"*"`

	Provider ProviderConfig
	DB       DBConfig
	Redis    RedisConfig
}

// ProviderConfig は価格データプロバイダの設定です。
type ProviderConfig struct {
	Name              string        `default:"yahoo" validate:"oneof=yahoo twelvedata"`
	TwelveDataAPIKey  string        `validate:"required_if=Name twelvedata"`
	TwelveDataBaseURL string        `default:"https://api.twelvedata.com" validate:"url"`
	RatePerMinute     int           `default:"8" validate:"min=1"`
	FetchTimeout      time.Duration `default:"10s" validate:"min=1s"`
	// 0 はデフォルト値（3）に置き換えられます。
	FetchMaxRetries int `default:"3" validate:"min=0,max=10"`
}

// DBConfig は分析履歴を保存するPostgreSQLの設定です。
type DBConfig struct {
	Disabled      bool
	Host          string `default:"localhost"`
	Port          string `default:"5432" validate:"numeric"`
	User          string `default:"postgres"`
	Password      string
	Name          string `default:"investiq"`
	SSLMode       string `default:"disable" validate:"oneof=disable require verify-ca verify-full"`
	RunMigrations bool
	// ConnectTimeout を過ぎても接続できなければ履歴なしで起動します。
	ConnectTimeout time.Duration `default:"60s" validate:"min=1s"`
}

// RedisConfig は履歴キャッシュ用のRedis設定です。Host が空ならキャッシュを使いません。
type RedisConfig struct {
	Host            string
	Port            string `default:"6379" validate:"numeric"`
	Password        string
	HistoryCacheTTL time.Duration `default:"5m" validate:"min=1s"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

var validate = validator.New()

// Load は .env ファイル（存在する場合）と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	// .env が無いのは正常（本番は環境変数のみ）
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup は lookup 関数から設定を組み立て、デフォルト値を補完して検証します。
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := envReader{lookup: lookup}

	cfg := &Config{
		HTTPAddr:  r.str("HTTP_ADDR"),
		LogLevel:  r.str("LOG_LEVEL"),
		LogFormat: r.str("LOG_FORMAT"),
		ModelPath: r.str("MODEL_PATH"),
		JWTSecret: r.str("JWT_SECRET"),

		CORSAllowOrigins: r.str("CORS_ALLOW_ORIGINS"),
		Provider: ProviderConfig{
			Name:              r.str("PRICE_PROVIDER"),
			TwelveDataAPIKey:  r.str("TWELVE_DATA_API_KEY"),
			TwelveDataBaseURL: r.str("TWELVE_DATA_BASE_URL"),
			RatePerMinute:     r.int("TWELVE_DATA_RATE_PER_MIN"),
			FetchTimeout:      r.duration("FETCH_TIMEOUT"),
			FetchMaxRetries:   r.int("FETCH_MAX_RETRIES"),
		},
		DB: DBConfig{
			Disabled:      r.bool("DB_DISABLED"),
			Host:          r.str("DB_HOST"),
			Port:          r.str("DB_PORT"),
			User:          r.str("DB_USER"),
			Password:      r.str("DB_PASSWORD"),
			Name:          r.str("DB_NAME"),
			SSLMode:       r.str("DB_SSLMODE"),
			RunMigrations: r.bool("RUN_MIGRATIONS"),

			ConnectTimeout: r.duration("DB_CONNECT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Host:            r.str("REDIS_HOST"),
			Port:            r.str("REDIS_PORT"),
			Password:        r.str("REDIS_PASSWORD"),
			HistoryCacheTTL: r.duration("HISTORY_CACHE_TTL"),
		},
	}
	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envReader は未設定のキーをゼロ値として扱い、パースエラーを蓄積します。
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) str(key string) string {
	v, _ := r.lookup(key)
	return v
}

func (r *envReader) int(key string) int {
	v := r.str(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
	}
	return n
}

func (r *envReader) bool(key string) bool {
	v := r.str(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
	}
	return b
}

func (r *envReader) duration(key string) time.Duration {
	v := r.str(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
	}
	return d
}
