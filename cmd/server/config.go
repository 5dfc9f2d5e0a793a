package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/liamcoop/heartrisk/classifier"
	_ "github.com/lib/pq"
)

// Model source names accepted in MODEL_SOURCE
const (
	sourceFile     = "file"
	sourcePostgres = "postgres"
)

type config struct {
	Port        string
	ModelSource string
	ModelPath   string
	ModelName   string
	DatabaseURL string
}

func loadConfig() (config, error) {
	cfg := config{
		Port:        getEnv("PORT", "8080"),
		ModelSource: getEnv("MODEL_SOURCE", sourceFile),
		ModelPath:   getEnv("MODEL_PATH", "models/heart_model.yaml"),
		ModelName:   getEnv("MODEL_NAME", "heart-risk"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	switch cfg.ModelSource {
	case sourceFile:
	case sourcePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL environment variable is required when MODEL_SOURCE=%s", sourcePostgres)
		}
	default:
		return cfg, fmt.Errorf("unknown MODEL_SOURCE %q (use: %s, %s)", cfg.ModelSource, sourceFile, sourcePostgres)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadModel reads the classifier artifact once. The database connection, if
// any, is closed before returning since nothing else reads from it.
func loadModel(cfg config) (*classifier.Model, error) {
	if cfg.ModelSource == sourceFile {
		return classifier.Load(classifier.NewFileSource(cfg.ModelPath))
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return classifier.Load(classifier.NewPostgresSource(db, cfg.ModelName))
}
