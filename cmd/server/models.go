package main

import (
	"encoding/json"
	"time"

	"github.com/liamcoop/heartrisk/assessment"
)

// API request and response models

// AssessRequest is the body of POST /api/v1/assess
type AssessRequest struct {
	Fields map[string]json.RawMessage `json:"fields" example:"{\"age\":45,\"sex\":1}"`
}

// AssessResponse is a completed assessment
type AssessResponse struct {
	ID             string                    `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Level          string                    `json:"level" example:"low"`
	Label          int                       `json:"label" example:"0"`
	Recommendation assessment.Recommendation `json:"recommendation"`
	Probabilities  *assessment.Probabilities `json:"probabilities,omitempty"`
	Confidence     *float64                  `json:"confidence,omitempty" example:"93.1"`
	Features       map[string]float64        `json:"features"`
	Model          string                    `json:"model" example:"heart-risk v1 (logistic)"`
	AssessedAt     time.Time                 `json:"assessedAt" example:"2024-01-15T10:30:00Z"`
	EvaluationTime string                    `json:"evaluationTime" example:"85µs"`
}

// FieldsResponse lists the form catalog and the model inputs in training order
type FieldsResponse struct {
	Fields        []assessment.Field `json:"fields"`
	ModelFeatures []string           `json:"modelFeatures"`
}

// ModelInfo describes the loaded classifier
type ModelInfo struct {
	Name          string `json:"name" example:"heart-risk"`
	Version       int    `json:"version" example:"1"`
	Kind          string `json:"kind" example:"logistic"`
	Probabilities bool   `json:"probabilities" example:"true"`
	Expression    string `json:"expression,omitempty" example:"heart_rate >= 100"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status string     `json:"status" example:"healthy"`
	Model  *ModelInfo `json:"model,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// ErrorResponse is returned for every failed API call
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid input"`
	Field   string `json:"field,omitempty" example:"age"`
	Details string `json:"details,omitempty" example:"invalid input for age: 17 is outside the range 18 to 90"`
}

func newAssessResponse(o *assessment.Outcome, model string, elapsed time.Duration) AssessResponse {
	return AssessResponse{
		ID:             o.ID.String(),
		Level:          o.Level.String(),
		Label:          o.Label,
		Recommendation: o.Recommendation,
		Probabilities:  o.Probabilities,
		Confidence:     o.Confidence,
		Features:       o.Features.Map(),
		Model:          model,
		AssessedAt:     o.AssessedAt,
		EvaluationTime: elapsed.String(),
	}
}
