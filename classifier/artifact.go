package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/liamcoop/heartrisk/assessment"
	"gopkg.in/yaml.v3"
)

// Artifact kinds
const (
	KindLogistic = "logistic"
	KindRules    = "rules"
)

// Artifact is the serialized form of a trained classifier
type Artifact struct {
	Name     string          `yaml:"name" json:"name"`
	Version  int             `yaml:"version" json:"version"`
	Kind     string          `yaml:"kind" json:"kind"`
	Features []string        `yaml:"features" json:"features"`
	Logistic *LogisticParams `yaml:"logistic,omitempty" json:"logistic,omitempty"`
	Rules    *RulesParams    `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// RulesParams holds a CEL expression over the model features.
// The expression must yield a bool (true = high risk) or an int label.
type RulesParams struct {
	Expression string `yaml:"expression" json:"expression"`
}

// DecodeArtifact parses a YAML or JSON artifact and checks its structure.
// Unknown keys are rejected.
func DecodeArtifact(data []byte) (*Artifact, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var a Artifact
	if err := dec.Decode(&a); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("model artifact is empty")
		}
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that the artifact is complete and was trained on the
// catalog's model features in the same order
func (a *Artifact) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("model artifact has no name")
	}

	want := assessment.ModelFeatureNames()
	if len(a.Features) != len(want) {
		return fmt.Errorf("model artifact %s declares %d features, expected %d", a.Name, len(a.Features), len(want))
	}
	for i := range want {
		if a.Features[i] != want[i] {
			return fmt.Errorf("model artifact %s feature %d is %q, expected %q", a.Name, i, a.Features[i], want[i])
		}
	}

	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return fmt.Errorf("model artifact %s of kind %s has no logistic parameters", a.Name, a.Kind)
		}
		return a.Logistic.validate()
	case KindRules:
		if a.Rules == nil || a.Rules.Expression == "" {
			return fmt.Errorf("model artifact %s of kind %s has no expression", a.Name, a.Kind)
		}
		return nil
	default:
		return fmt.Errorf("model artifact %s has unsupported kind %q (must be one of: %s, %s)", a.Name, a.Kind, KindLogistic, KindRules)
	}
}
