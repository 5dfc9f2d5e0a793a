package assessment

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Classifier maps a feature vector to a binary label (0 = low risk, 1 = high risk)
type Classifier interface {
	Predict(features FeatureVector) (int, error)
}

// ProbabilityClassifier is a Classifier that also exposes class probabilities.
// PredictProba returns [p_low, p_high] as fractions summing to 1.
type ProbabilityClassifier interface {
	Classifier
	PredictProba(features FeatureVector) ([2]float64, error)
}

// probabilityTolerance bounds how far p_low + p_high may drift from 1
const probabilityTolerance = 1e-6

// Pipeline validates a record, runs the classifier and maps the label to an outcome.
// A Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	classifier  Classifier
	probability ProbabilityClassifier // nil when the classifier has no probability interface
	now         func() time.Time
}

// NewPipeline creates a pipeline around clf.
// Passing a nil classifier yields a pipeline that answers every call with ErrModelUnavailable.
func NewPipeline(clf Classifier) *Pipeline {
	p := &Pipeline{
		classifier: clf,
		now:        time.Now,
	}
	if pc, ok := clf.(ProbabilityClassifier); ok {
		p.probability = pc
	}
	return p
}

// Available reports whether a classifier was loaded
func (p *Pipeline) Available() bool {
	return p.classifier != nil
}

// HasProbabilities reports whether outcomes will carry probabilities
func (p *Pipeline) HasProbabilities() bool {
	return p.probability != nil
}

// Assess runs one assessment. It returns exactly one of a HighRisk or LowRisk
// outcome, or an error from the taxonomy in errors.go.
func (p *Pipeline) Assess(record PatientRecord) (*Outcome, error) {
	if !p.Available() {
		return nil, ErrModelUnavailable
	}

	if err := Validate(record); err != nil {
		return nil, err
	}

	features := AssembleFeatures(record)

	label, err := p.classifier.Predict(features)
	if err != nil {
		return nil, &AssessmentFailedError{Reason: "prediction error", Err: err}
	}

	var level RiskLevel
	switch label {
	case 0:
		level = LowRisk
	case 1:
		level = HighRisk
	default:
		return nil, &ModelContractViolationError{Label: label}
	}

	outcome := &Outcome{
		ID:             uuid.New(),
		Level:          level,
		Label:          label,
		Recommendation: RecommendationFor(level),
		Features:       features,
		AssessedAt:     p.now().UTC(),
	}

	if p.probability != nil {
		probs, err := p.probabilities(features)
		if err != nil {
			return nil, err
		}
		confidence := probs.Confidence()
		outcome.Probabilities = &probs
		outcome.Confidence = &confidence
	}

	return outcome, nil
}

// probabilities queries the probability interface and converts to percent
func (p *Pipeline) probabilities(features FeatureVector) (Probabilities, error) {
	raw, err := p.probability.PredictProba(features)
	if err != nil {
		return Probabilities{}, &AssessmentFailedError{Reason: "probability error", Err: err}
	}

	low, high := raw[0], raw[1]
	for _, v := range raw {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Probabilities{}, &AssessmentFailedError{Reason: "class probabilities must lie in [0, 1]"}
		}
	}
	if math.Abs(low+high-1) > probabilityTolerance {
		return Probabilities{}, &AssessmentFailedError{Reason: "class probabilities do not sum to 1"}
	}

	return Probabilities{Low: low * 100, High: high * 100}, nil
}
