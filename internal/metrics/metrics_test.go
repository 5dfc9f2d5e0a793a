package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/liamcoop/heartrisk/internal/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAssessment(t *testing.T) {
	m := New()
	m.ObserveAssessment("high", "clinical", 2*time.Millisecond)
	m.ObserveAssessment("high", "clinical", time.Millisecond)
	m.ObserveAssessment("low", "quick", time.Millisecond)

	if got := testutil.ToFloat64(m.assessments.WithLabelValues("high", "clinical")); got != 2 {
		t.Errorf("high/clinical = %g, want 2", got)
	}
	if got := testutil.ToFloat64(m.assessments.WithLabelValues("low", "quick")); got != 1 {
		t.Errorf("low/quick = %g, want 1", got)
	}
}

func TestObserveFailureAndModelGauge(t *testing.T) {
	m := New()
	m.ObserveFailure("invalid_input")
	m.SetModelLoaded(true)

	if got := testutil.ToFloat64(m.failures.WithLabelValues("invalid_input")); got != 1 {
		t.Errorf("invalid_input = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.modelLoaded); got != 1 {
		t.Errorf("model_loaded = %g, want 1", got)
	}

	m.SetModelLoaded(false)
	if got := testutil.ToFloat64(m.modelLoaded); got != 0 {
		t.Errorf("model_loaded = %g, want 0", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAssessment("low", "clinical", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"heartrisk_assessments_total", "heartrisk_assessment_duration_seconds", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}

func TestLogCountersFollowLogger(t *testing.T) {
	m := New()
	errorsBefore := testutil.ToFloat64(m.logErrors)
	warningsBefore := testutil.ToFloat64(m.logWarnings)

	logger.Error("metrics test error")
	logger.Warn("metrics test warning")
	logger.Warn("metrics test warning")

	if got := testutil.ToFloat64(m.logErrors) - errorsBefore; got != 1 {
		t.Errorf("log_errors_total grew by %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.logWarnings) - warningsBefore; got != 2 {
		t.Errorf("log_warnings_total grew by %g, want 2", got)
	}
}
