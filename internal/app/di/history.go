package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	riskadapters "investiq_backend/internal/feature/riskanalysis/adapters"
	"investiq_backend/internal/feature/riskanalysis/usecase"
	"investiq_backend/internal/platform/cache"
)

// NewHistoryRepository は分析履歴リポジトリを生成します。
// DBが無い場合は nil を返し、履歴機能は無効になります。
// Redisが利用可能な場合は読み取りキャッシュで包みます。
func NewHistoryRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.HistoryRepository {
	if db == nil {
		return nil
	}
	repo := riskadapters.NewHistoryRepository(db)
	if rdb != nil {
		return cache.NewCachingHistoryRepository(rdb, ttl, repo, "analyses")
	}
	return repo
}
