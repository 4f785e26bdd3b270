package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&AnalysisModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func sampleAnalysis(ticker string, at time.Time, class entity.RiskClass) entity.Analysis {
	return entity.Analysis{
		Ticker: ticker,
		Price:  187.42,
		Features: entity.FeatureRecord{
			RSI: 58.1, MACD: 0.42, Volatility30: 1.31, Volatility90: 1.52,
			BBWidth: 7.9, Momentum: 3.4, DailyReturnPct: 0.87,
		},
		Class:          class,
		Label:          class.Label(),
		Color:          class.Color(),
		Probabilities:  entity.Probabilities{Low: 61.5, Medium: 30.2, High: 8.3},
		Recommendation: class.Recommendation(),
		ModelVersion:   "v1",
		AnalyzedAt:     at,
	}
}

func TestNewHistoryRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewHistoryRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestHistoryGorm_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, sampleAnalysis("aapl", base, entity.RiskLow)))
	require.NoError(t, repo.Save(ctx, sampleAnalysis("AAPL", base.Add(2*time.Hour), entity.RiskHigh)))
	require.NoError(t, repo.Save(ctx, sampleAnalysis("AAPL", base.Add(time.Hour), entity.RiskMedium)))
	require.NoError(t, repo.Save(ctx, sampleAnalysis("MSFT", base, entity.RiskLow)))

	got, err := repo.ListByTicker(ctx, "Aapl", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, entity.RiskHigh, got[0].Class)
	assert.Equal(t, entity.RiskMedium, got[1].Class)
	assert.Equal(t, entity.RiskLow, got[2].Class)

	first := got[0]
	assert.Equal(t, "AAPL", first.Ticker)
	assert.Equal(t, "High Risk", first.Label)
	assert.Equal(t, "#EF4444", first.Color)
	assert.Equal(t, entity.RiskHigh.Recommendation(), first.Recommendation)
	assert.Equal(t, 58.1, first.Features.RSI)
	assert.Equal(t, 0.87, first.Features.DailyReturnPct)
	assert.Equal(t, 61.5, first.Probabilities.Low)
	assert.Equal(t, "v1", first.ModelVersion)
	assert.True(t, base.Add(2*time.Hour).Equal(first.AnalyzedAt))
}

func TestHistoryGorm_ListByTicker_Limit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, sampleAnalysis("TSLA", base.AddDate(0, 0, i), entity.RiskMedium)))
	}

	got, err := repo.ListByTicker(ctx, "TSLA", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, base.AddDate(0, 0, 4).Equal(got[0].AnalyzedAt))

	none, err := repo.ListByTicker(ctx, "NVDA", 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryGorm_ClosedDB(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewHistoryRepository(db)
	assert.Error(t, repo.Save(context.Background(), sampleAnalysis("AAPL", time.Now(), entity.RiskLow)))
	_, err = repo.ListByTicker(context.Background(), "AAPL", 1)
	assert.Error(t, err)
}
