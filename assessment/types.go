package assessment

import (
	"time"

	"github.com/google/uuid"
)

// PatientRecord maps a catalog field name to its submitted value.
// Enumerated fields carry their option code.
type PatientRecord map[string]float64

// FeatureCount is the number of inputs the classifier was trained on
const FeatureCount = 10

// FeatureVector is the ordered classifier input. Position i holds ModelFeatures[i].
type FeatureVector [FeatureCount]float64

// Probabilities holds class probabilities in percent
type Probabilities struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Confidence is the larger of the two class probabilities
func (p Probabilities) Confidence() float64 {
	if p.High > p.Low {
		return p.High
	}
	return p.Low
}

// RiskLevel is the tagged result of one assessment
type RiskLevel int

const (
	LowRisk RiskLevel = iota
	HighRisk
)

// String returns the display name of the level
func (l RiskLevel) String() string {
	switch l {
	case HighRisk:
		return "high"
	case LowRisk:
		return "low"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level as its string form
func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Outcome is the result bundle shown to the user after one assessment.
// Probabilities and Confidence are nil when the classifier has no probability interface.
type Outcome struct {
	ID             uuid.UUID      `json:"id"`
	Level          RiskLevel      `json:"level"`
	Label          int            `json:"label"`
	Recommendation Recommendation `json:"recommendation"`
	Probabilities  *Probabilities `json:"probabilities,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	Features       FeatureVector  `json:"features"`
	AssessedAt     time.Time      `json:"assessedAt"`
}

// IsHighRisk reports whether the outcome is the high risk variant
func (o *Outcome) IsHighRisk() bool {
	return o.Level == HighRisk
}
