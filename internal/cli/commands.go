// Package cli は riskctl コマンドを実装します。
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"investiq_backend/internal/app/di"
	"investiq_backend/internal/feature/riskanalysis/adapters/model"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/transport/handler"
	"investiq_backend/internal/feature/riskanalysis/transport/http/dto"
	"investiq_backend/internal/platform/config"
	infradb "investiq_backend/internal/platform/db"
	jwtmw "investiq_backend/internal/platform/jwt"
	"investiq_backend/internal/platform/logger"
)

// Analyzer はCLIから使う分析ユースケースです。
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*entity.Analysis, error)
}

// app はコマンド間で共有する依存です。テストでは差し替えます。
type app struct {
	out         io.Writer
	errOut      io.Writer
	loadConfig  func() (*config.Config, error)
	newAnalyzer func(cfg *config.Config, record bool, log zerolog.Logger) (Analyzer, func(), error)
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		out:         os.Stdout,
		errOut:      os.Stderr,
		loadConfig:  config.Load,
		newAnalyzer: buildAnalyzer,
	})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "riskctl",
		Short: "riskctl - stock risk classification tools",
		Long: `riskctl runs the stock risk classification pipeline from the command line,
inspects the model artifact and issues API tokens for operators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newModelCmd(a))
	rootCmd.AddCommand(newTokenCmd(a))

	return rootCmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		record  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "analyze TICKER [TICKER...]",
		Short: "Classify the risk of one or more tickers",
		Long: `Fetch daily prices, compute the technical indicators and classify the risk
of each ticker. Example: riskctl analyze AAPL MSFT --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: a.errOut})
			if err != nil {
				return err
			}

			uc, cleanup, err := a.newAnalyzer(cfg, record, log)
			if err != nil {
				return err
			}
			defer cleanup()

			failed := 0
			for _, ticker := range args {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				res, err := uc.Analyze(ctx, ticker)
				cancel()
				if err != nil {
					failed++
				}
				if asJSON {
					if werr := writeJSON(a.out, res, err); werr != nil {
						return werr
					}
					continue
				}
				if err != nil {
					_, msg := handler.ErrorStatus(err)
					fmt.Fprintln(a.out, renderError(ticker, msg))
					continue
				}
				fmt.Fprintln(a.out, renderAnalysis(ticker, res))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d analyses failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response body instead of a summary")
	cmd.Flags().BoolVar(&record, "record", false, "Record successful analyses in the history database")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout per ticker")

	return cmd
}

// newModelCmd creates the model command
func newModelCmd(a *app) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Model artifact management",
	}

	var path string
	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Validate the model artifact and print its contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.ModelPath
			}
			art, err := model.ReadArtifact(path)
			if err != nil {
				return err
			}
			if _, err := model.New(art); err != nil {
				return err
			}
			fmt.Fprintln(a.out, renderArtifact(path, art))
			return nil
		},
	}
	inspect.Flags().StringVar(&path, "path", "", "Artifact path (defaults to MODEL_PATH)")
	modelCmd.AddCommand(inspect)

	return modelCmd
}

// newTokenCmd creates the token command
func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /api endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := jwtmw.NewGenerator(cfg.JWTSecret, ttl).GenerateToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "riskctl", "Token subject (service or operator name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

// writeJSON はHTTP APIと同じ形式のボディを1行で出力します。
func writeJSON(w io.Writer, res *entity.Analysis, err error) error {
	var body any
	if err != nil {
		_, msg := handler.ErrorStatus(err)
		body = dto.ErrorResponse{Success: false, Error: msg}
	} else {
		body = dto.AnalysisResponse{Success: true, Data: dto.FromAnalysis(*res)}
	}
	return json.NewEncoder(w).Encode(body)
}

// buildAnalyzer はサーバーと同じ構成でユースケースを組み立てます。
// record が true の場合のみDBに接続します。
func buildAnalyzer(cfg *config.Config, record bool, log zerolog.Logger) (Analyzer, func(), error) {
	source, err := di.NewPriceSource(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}

	deps := di.Deps{
		Source:     source,
		Classifier: di.LoadClassifier(cfg.ModelPath, log),
		Logger:     log,
	}
	cleanup := func() {}

	if record && !cfg.DB.Disabled {
		db, err := infradb.OpenDB(context.Background(), di.DBConfig(cfg.DB), nil, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open history database: %w", err)
		}
		deps.History = di.NewHistoryRepository(db, nil, 0)
		cleanup = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	return di.NewAnalyzeUsecase(deps), cleanup, nil
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
