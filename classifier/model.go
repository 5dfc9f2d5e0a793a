package classifier

import (
	"fmt"

	"github.com/liamcoop/heartrisk/assessment"
)

// Model is a loaded classifier artifact. It is immutable after Load and safe
// for concurrent reads.
type Model struct {
	Name    string
	Version int
	Kind    string

	classifier  assessment.Classifier
	probability bool
}

// Load fetches an artifact from src, validates it and builds the classifier.
func Load(src Source) (*Model, error) {
	data, err := src.Fetch()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model artifact from %s: %w", src.Describe(), err)
	}

	artifact, err := DecodeArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("invalid model artifact from %s: %w", src.Describe(), err)
	}

	return NewModel(artifact)
}

// NewModel builds a model from a decoded artifact
func NewModel(a *Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	var clf assessment.Classifier
	switch a.Kind {
	case KindLogistic:
		m, err := NewLogisticModel(*a.Logistic)
		if err != nil {
			return nil, fmt.Errorf("failed to build model %s: %w", a.Name, err)
		}
		clf = m
	case KindRules:
		m, err := NewRulesModel(a.Rules.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to build model %s: %w", a.Name, err)
		}
		clf = m
	}

	// capability decided once here
	_, hasProba := clf.(assessment.ProbabilityClassifier)

	return &Model{
		Name:        a.Name,
		Version:     a.Version,
		Kind:        a.Kind,
		classifier:  clf,
		probability: hasProba,
	}, nil
}

// Classifier returns the classifier to inject into an assessment.Pipeline
func (m *Model) Classifier() assessment.Classifier {
	return m.classifier
}

// HasProbabilities reports whether the model exposes class probabilities
func (m *Model) HasProbabilities() bool {
	return m.probability
}

// Expression returns the CEL source of a rules model, or "" for other kinds
func (m *Model) Expression() string {
	if r, ok := m.classifier.(*RulesModel); ok {
		return r.Expression()
	}
	return ""
}

// String identifies the model in logs
func (m *Model) String() string {
	return fmt.Sprintf("%s v%d (%s)", m.Name, m.Version, m.Kind)
}
