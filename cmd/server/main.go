package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/liamcoop/heartrisk/assessment"
	"github.com/liamcoop/heartrisk/classifier"
	"github.com/liamcoop/heartrisk/internal/logger"
	"github.com/liamcoop/heartrisk/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// variant is one rendering of the assessment form
type variant struct {
	Name              string
	Path              string
	Template          string
	Title             string
	ShowProbabilities bool
}

var (
	clinicalVariant = variant{
		Name:              "clinical",
		Path:              "/",
		Template:          "clinical.html",
		Title:             "Cardiovascular Disease Risk Assessment System",
		ShowProbabilities: true,
	}
	quickVariant = variant{
		Name:     "quick",
		Path:     "/quick",
		Template: "quick.html",
		Title:    "Heart Disease Risk Prediction",
	}
	// JSON submissions share the pipeline but render no page
	apiVariant = variant{Name: "api"}
)

type Server struct {
	pipeline *assessment.Pipeline
	model    *classifier.Model // nil when the artifact failed to load
	loadErr  error
	metrics  *metrics.Metrics
	pages    *template.Template
	router   *chi.Mux
}

// NewServer wires the pipeline around model. A nil model with loadErr set
// produces a server whose pages disable submission.
func NewServer(model *classifier.Model, loadErr error, m *metrics.Metrics) (*Server, error) {
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"num": formatNumber,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	var clf assessment.Classifier
	if model != nil {
		clf = model.Classifier()
	} else if loadErr == nil {
		loadErr = assessment.ErrModelUnavailable
	}

	m.SetModelLoaded(model != nil)

	s := &Server{
		pipeline: assessment.NewPipeline(clf),
		model:    model,
		loadErr:  loadErr,
		metrics:  m,
		pages:    pages,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Form pages
	for _, v := range []variant{clinicalVariant, quickVariant} {
		r.Get(v.Path, s.handleForm(v))
		r.Post(v.Path, s.handleSubmit(v))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/fields", s.handleFields)
		r.Post("/assess", s.handleAssess)
	})

	r.Handle("/metrics", s.metrics.Handler())

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// modelName identifies the loaded model in responses
func (s *Server) modelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.String()
}

// assess runs the pipeline and records metrics and logs for one submission
func (s *Server) assess(v variant, record assessment.PatientRecord) (*assessment.Outcome, time.Duration, error) {
	start := time.Now()
	outcome, err := s.pipeline.Assess(record)
	elapsed := time.Since(start)

	if err != nil {
		_, kind := classifyError(err)
		s.metrics.ObserveFailure(kind)
		if kind == kindInvalidInput {
			logger.Debug("rejected submission", "variant", v.Name, "error", err)
		} else {
			logger.Error("assessment failed", "variant", v.Name, "kind", kind, "error", err)
		}
		return nil, elapsed, err
	}

	s.metrics.ObserveAssessment(outcome.Level.String(), v.Name, elapsed)
	logger.Info("assessment completed",
		"id", outcome.ID.String(),
		"variant", v.Name,
		"level", outcome.Level.String(),
		"model", s.modelName(),
		"duration", elapsed,
	)
	return outcome, elapsed, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func main() {
	ctx := context.Background()

	if err := logger.Setup(ctx, logger.ConfigFromEnv()); err != nil {
		logger.Warn("logger setup degraded", "error", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	// Load the model once; failure disables prediction until restart
	model, loadErr := loadModel(cfg)
	if loadErr != nil {
		logger.Error("failed to load model artifact, assessments disabled",
			"source", cfg.ModelSource,
			"error", loadErr,
		)
	} else {
		logger.Info("model loaded", "model", model.String(), "probabilities", model.HasProbabilities())
	}

	server, err := NewServer(model, loadErr, metrics.New())
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := logger.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
	}

	logger.Info("server stopped")
}
