package classifier

import (
	"fmt"
	"math"

	"github.com/liamcoop/heartrisk/assessment"
)

// defaultThreshold is used when an artifact leaves the threshold unset
const defaultThreshold = 0.5

// LogisticParams are the coefficients of a standardized logistic regression.
// Mean and Scale are optional; when present each input is standardized as (x-mean)/scale.
type LogisticParams struct {
	Intercept float64   `yaml:"intercept" json:"intercept"`
	Weights   []float64 `yaml:"weights" json:"weights"`
	Threshold float64   `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Mean      []float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	Scale     []float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

func (p *LogisticParams) validate() error {
	if len(p.Weights) != assessment.FeatureCount {
		return fmt.Errorf("logistic model has %d weights, expected %d", len(p.Weights), assessment.FeatureCount)
	}
	if (p.Mean == nil) != (p.Scale == nil) {
		return fmt.Errorf("logistic model must declare both mean and scale or neither")
	}
	if p.Mean != nil {
		if len(p.Mean) != assessment.FeatureCount || len(p.Scale) != assessment.FeatureCount {
			return fmt.Errorf("logistic model mean/scale must have %d entries", assessment.FeatureCount)
		}
		for i, s := range p.Scale {
			if s == 0 {
				return fmt.Errorf("logistic model scale %d is zero", i)
			}
		}
	}
	if p.Threshold < 0 || p.Threshold >= 1 {
		return fmt.Errorf("logistic model threshold %g must lie in (0, 1)", p.Threshold)
	}
	return nil
}

// LogisticModel classifies with a logistic regression and exposes class probabilities
type LogisticModel struct {
	intercept float64
	weights   assessment.FeatureVector
	mean      assessment.FeatureVector
	scale     assessment.FeatureVector
	threshold float64
}

// NewLogisticModel builds a model from validated parameters
func NewLogisticModel(p LogisticParams) (*LogisticModel, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	m := &LogisticModel{
		intercept: p.Intercept,
		threshold: p.Threshold,
	}
	if m.threshold == 0 {
		m.threshold = defaultThreshold
	}
	copy(m.weights[:], p.Weights)
	for i := range m.scale {
		m.scale[i] = 1
	}
	if p.Mean != nil {
		copy(m.mean[:], p.Mean)
		copy(m.scale[:], p.Scale)
	}
	return m, nil
}

// highProbability returns P(high risk | features)
func (m *LogisticModel) highProbability(features assessment.FeatureVector) (float64, error) {
	z := m.intercept
	for i, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("feature %d is not a finite number", i)
		}
		z += m.weights[i] * (x - m.mean[i]) / m.scale[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns 1 when P(high risk) reaches the threshold
func (m *LogisticModel) Predict(features assessment.FeatureVector) (int, error) {
	p, err := m.highProbability(features)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns [p_low, p_high]
func (m *LogisticModel) PredictProba(features assessment.FeatureVector) ([2]float64, error) {
	p, err := m.highProbability(features)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{1 - p, p}, nil
}
