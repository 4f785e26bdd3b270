package entity

import "fmt"

// RiskClass is the ordinal risk category predicted by the classifier.
// The index order is fixed by the trained artifact and must not be changed without retraining.
type RiskClass int

const (
	RiskLow RiskClass = iota
	RiskMedium
	RiskHigh
)

// NumRiskClasses is the number of classes the classifier distinguishes.
const NumRiskClasses = 3

type riskProfile struct {
	name           string
	label          string
	color          string
	recommendation string
}

var riskProfiles = [NumRiskClasses]riskProfile{
	RiskLow: {
		name:           "Low",
		label:          "Low Risk",
		color:          "#10B981",
		recommendation: "This stock shows stable performance with low volatility. Suitable for conservative investors looking for steady returns. The AI model indicates low risk based on technical indicators.",
	},
	RiskMedium: {
		name:           "Medium",
		label:          "Medium Risk",
		color:          "#F59E0B",
		recommendation: "This stock shows moderate risk characteristics. Suitable for balanced portfolios. The AI model suggests monitoring closely and maintaining proper position sizing.",
	},
	RiskHigh: {
		name:           "High",
		label:          "High Risk",
		color:          "#EF4444",
		recommendation: "This stock exhibits high volatility. Suitable only for aggressive investors with high risk tolerance. The AI model indicates significant risk - exercise caution.",
	},
}

// ClassNames returns the class names in index order.
func ClassNames() []string {
	out := make([]string, NumRiskClasses)
	for i, p := range riskProfiles {
		out[i] = p.name
	}
	return out
}

// Valid reports whether r is a known class index.
func (r RiskClass) Valid() bool {
	return r >= 0 && int(r) < NumRiskClasses
}

func (r RiskClass) String() string {
	if !r.Valid() {
		return fmt.Sprintf("RiskClass(%d)", int(r))
	}
	return riskProfiles[r].name
}

// Label returns the display label, e.g. "Low Risk".
func (r RiskClass) Label() string {
	if !r.Valid() {
		return ""
	}
	return riskProfiles[r].label
}

// Color returns the hex display color.
func (r RiskClass) Color() string {
	if !r.Valid() {
		return ""
	}
	return riskProfiles[r].color
}

// Recommendation returns the fixed recommendation text for the class.
func (r RiskClass) Recommendation() string {
	if !r.Valid() {
		return ""
	}
	return riskProfiles[r].recommendation
}
