package classifier

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/liamcoop/heartrisk/assessment"
)

// ruleCostLimit bounds the evaluation cost of a rules expression
const ruleCostLimit = 1000000

// NewFeatureEnv creates a CEL environment with one double variable per model feature
func NewFeatureEnv() (*cel.Env, error) {
	opts := []cel.EnvOption{
		// lets expressions compare doubles with int literals, e.g. age > 50
		cel.CrossTypeNumericComparisons(true),
	}
	for _, name := range assessment.ModelFeatureNames() {
		opts = append(opts, cel.Variable(name, cel.DoubleType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// RulesModel classifies with a compiled CEL expression. It has no probability interface.
type RulesModel struct {
	expression string
	program    cel.Program
}

// NewRulesModel compiles expression against the feature environment.
// The expression must type-check to bool or int.
func NewRulesModel(expression string) (*RulesModel, error) {
	env, err := NewFeatureEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.IntType) {
		return nil, fmt.Errorf("rules expression must return bool or int, got %s", out)
	}

	prog, err := env.Program(ast, cel.CostLimit(ruleCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	return &RulesModel{
		expression: expression,
		program:    prog,
	}, nil
}

// Expression returns the source expression
func (m *RulesModel) Expression() string {
	return m.expression
}

// Predict evaluates the expression. A bool result maps to 1/0, an int is returned as the label.
func (m *RulesModel) Predict(features assessment.FeatureVector) (int, error) {
	vars := make(map[string]any, assessment.FeatureCount)
	for name, v := range features.Map() {
		vars[name] = v
	}

	out, _, err := m.program.Eval(vars)
	if err != nil {
		return 0, fmt.Errorf("evaluation error: %w", err)
	}

	switch v := out.Value().(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("rules expression returned %T", v)
	}
}
