// Package model は学習済みリスク分類モデルのアーティファクトを読み込み、推論を行います。
package model

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/indicator"
)

// Supported artifact kinds.
const (
	KindLogistic = "logistic"
	KindForest   = "forest"
)

// ErrInvalidArtifact はアーティファクトの内容が契約に合わない場合に返されます。
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact はモデルファイルのスキーマです。YAMLはJSONの上位互換なので、
// 学習側が json.dump した成果物もそのまま読み込めます。
type Artifact struct {
	Version         string            `yaml:"version"`
	Kind            string            `yaml:"kind"`
	Classes         []string          `yaml:"classes"`
	Features        []string          `yaml:"features"`
	IndicatorParams *indicator.Params `yaml:"indicator_params"`
	Logistic        *LogisticParams   `yaml:"logistic,omitempty"`
	Forest          *ForestParams     `yaml:"forest,omitempty"`
}

// ReadArtifact はファイルからアーティファクトを読み込み、検証します。
func ReadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseArtifact(raw)
}

// ParseArtifact はバイト列をデコードし、検証します。
func ParseArtifact(raw []byte) (*Artifact, error) {
	var a Artifact
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks the artifact against the feature and class contract of this service.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidArtifact)
	}
	if !equalStrings(a.Classes, entity.ClassNames()) {
		return fmt.Errorf("%w: classes %v, want %v", ErrInvalidArtifact, a.Classes, entity.ClassNames())
	}
	if !equalStrings(a.Features, entity.FeatureNames()) {
		return fmt.Errorf("%w: features %v, want %v", ErrInvalidArtifact, a.Features, entity.FeatureNames())
	}
	if a.IndicatorParams == nil {
		return fmt.Errorf("%w: indicator_params is required", ErrInvalidArtifact)
	}
	if *a.IndicatorParams != indicator.DefaultParams() {
		return fmt.Errorf("%w: indicator_params %+v do not match engine %+v", ErrInvalidArtifact, *a.IndicatorParams, indicator.DefaultParams())
	}

	nf, nc := len(a.Features), len(a.Classes)
	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return fmt.Errorf("%w: logistic parameters missing", ErrInvalidArtifact)
		}
		return a.Logistic.validate(nf, nc)
	case KindForest:
		if a.Forest == nil {
			return fmt.Errorf("%w: forest parameters missing", ErrInvalidArtifact)
		}
		return a.Forest.validate(nf, nc)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
