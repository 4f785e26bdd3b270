package usecase

import (
	"fmt"
	"math"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

// ProbabilityTolerance is the allowed deviation of a class distribution from a total of 1.
const ProbabilityTolerance = 1e-6

// CheckProbabilities verifies that probs is a distribution over the risk classes.
func CheckProbabilities(probs []float64) error {
	if len(probs) != entity.NumRiskClasses {
		return fmt.Errorf("%w: got %d values, want %d", domain.ErrInvalidProbabilities, len(probs), entity.NumRiskClasses)
	}
	var sum float64
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: p[%d]=%v", domain.ErrInvalidProbabilities, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return fmt.Errorf("%w: sum=%v", domain.ErrInvalidProbabilities, sum)
	}
	return nil
}

// Assemble builds the analysis result from the classifier outcome.
// It performs no I/O; the caller stamps model version and time.
func Assemble(ticker string, price float64, features entity.FeatureRecord, class entity.RiskClass, probs []float64) (entity.Analysis, error) {
	if !class.Valid() {
		return entity.Analysis{}, fmt.Errorf("%w: class index %d", domain.ErrInvalidProbabilities, int(class))
	}
	if err := CheckProbabilities(probs); err != nil {
		return entity.Analysis{}, err
	}

	return entity.Analysis{
		Ticker:   ticker,
		Price:    price,
		Features: features,
		Class:    class,
		Label:    class.Label(),
		Color:    class.Color(),
		Probabilities: entity.Probabilities{
			Low:    probs[entity.RiskLow] * 100,
			Medium: probs[entity.RiskMedium] * 100,
			High:   probs[entity.RiskHigh] * 100,
		},
		Recommendation: class.Recommendation(),
	}, nil
}
