package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liamcoop/heartrisk/assessment"
	"github.com/liamcoop/heartrisk/internal/logger"
)

// Error kinds used for metrics labels
const (
	kindInvalidInput      = "invalid_input"
	kindModelUnavailable  = "model_unavailable"
	kindContractViolation = "contract_violation"
	kindAssessmentFailed  = "assessment_failed"
)

// classifyError maps the assessment error taxonomy to an HTTP status and metrics kind
func classifyError(err error) (int, string) {
	var invalid *assessment.InvalidInputError
	var violation *assessment.ModelContractViolationError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, kindInvalidInput
	case errors.Is(err, assessment.ErrModelUnavailable):
		return http.StatusServiceUnavailable, kindModelUnavailable
	case errors.As(err, &violation):
		return http.StatusBadGateway, kindContractViolation
	default:
		return http.StatusInternalServerError, kindAssessmentFailed
	}
}

// errorMessage is the text shown to users above the form
func errorMessage(err error) string {
	var invalid *assessment.InvalidInputError
	var violation *assessment.ModelContractViolationError

	switch {
	case errors.As(err, &invalid):
		label := invalid.Field
		if f, ok := assessment.LookupField(invalid.Field); ok {
			label = f.Label
		}
		return fmt.Sprintf("%s: %s. Please correct the value and try again.", label, invalid.Reason)
	case errors.Is(err, assessment.ErrModelUnavailable):
		return "Model not loaded. Cannot perform assessment."
	case errors.As(err, &violation):
		return fmt.Sprintf("Error during risk assessment: the model returned an unexpected label (%d).", violation.Label)
	default:
		return fmt.Sprintf("Error during risk assessment: %v. Please verify all input fields are completed correctly and try again.", err)
	}
}

// handleForm renders an empty form with default values
func (s *Server) handleForm(v variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPageData(v, assessment.DefaultRecord())
		s.render(w, http.StatusOK, v, data)
	}
}

// handleSubmit assesses a form post and re-renders the page with the result or error
func (s *Server) handleSubmit(v variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			data := s.newPageData(v, assessment.DefaultRecord())
			data.Error = "Could not read the submitted form."
			s.render(w, http.StatusBadRequest, v, data)
			return
		}

		var outcome *assessment.Outcome
		record, err := assessment.ParseForm(r.PostForm)
		switch {
		case !s.pipeline.Available():
			// a missing model is reported ahead of any input problem
			_, _, err = s.assess(v, record)
		case err != nil:
			s.metrics.ObserveFailure(kindInvalidInput)
		default:
			outcome, _, err = s.assess(v, record)
		}

		if err == nil {
			data := s.newPageData(v, record)
			data.Result = newResultView(outcome, v)
			s.render(w, http.StatusOK, v, data)
			return
		}

		status, _ := classifyError(err)
		data := s.newPageData(v, record)
		data.Error = errorMessage(err)
		var invalid *assessment.InvalidInputError
		if errors.As(err, &invalid) {
			data.markInvalid(invalid.Field)
		}
		s.render(w, status, v, data)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, v variant, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, v.Template, data); err != nil {
		logger.Error("failed to render page", "template", v.Template, "error", err)
	}
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.pipeline.Available() {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Error:  s.loadErr.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Model: &ModelInfo{
			Name:          s.model.Name,
			Version:       s.model.Version,
			Kind:          s.model.Kind,
			Probabilities: s.model.HasProbabilities(),
			Expression:    s.model.Expression(),
		},
	})
}

// Field catalog handler
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, FieldsResponse{
		Fields:        assessment.Fields,
		ModelFeatures: assessment.ModelFeatureNames(),
	})
}

// Assessment handler
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Fields == nil {
		respondError(w, http.StatusBadRequest, "fields are required", nil)
		return
	}

	var outcome *assessment.Outcome
	var elapsed time.Duration
	record, err := assessment.DecodeFields(req.Fields)
	switch {
	case !s.pipeline.Available():
		_, _, err = s.assess(apiVariant, record)
	case err != nil:
		s.metrics.ObserveFailure(kindInvalidInput)
	default:
		outcome, elapsed, err = s.assess(apiVariant, record)
	}
	if err != nil {
		respondAssessError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newAssessResponse(outcome, s.modelName(), elapsed))
}

// respondAssessError writes the taxonomy error with its mapped status
func respondAssessError(w http.ResponseWriter, err error) {
	status, _ := classifyError(err)
	resp := ErrorResponse{Error: http.StatusText(status), Details: err.Error()}
	var invalid *assessment.InvalidInputError
	if errors.As(err, &invalid) {
		resp.Error = "invalid input"
		resp.Field = invalid.Field
	}
	respondJSON(w, status, resp)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}
