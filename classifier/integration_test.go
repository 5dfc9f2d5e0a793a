//go:build integration
// +build integration

package classifier_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/liamcoop/heartrisk/assessment"
	"github.com/liamcoop/heartrisk/classifier"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"
)

// setupTestDB creates a PostgreSQL container and applies every up migration
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "heartrisk_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connStr := fmt.Sprintf("host=%s port=%s user=test password=test dbname=heartrisk_test sslmode=disable", host, port.Port())

	var db *sql.DB
	for i := 0; i < 30; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	files, err := filepath.Glob(filepath.Join("..", "migrations", "*.up.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("Failed to find migrations: %v", err)
	}
	sort.Strings(files)
	for _, f := range files {
		migrationSQL, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("Failed to read migration %s: %v", f, err)
		}
		if _, err := db.Exec(string(migrationSQL)); err != nil {
			t.Fatalf("Failed to run migration %s: %v", f, err)
		}
	}

	cleanup := func() {
		db.Close()
		postgresContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgresSource_SeededArtifact(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	model, err := classifier.Load(classifier.NewPostgresSource(db, "heart-risk"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if model.Kind != classifier.KindLogistic || !model.HasProbabilities() {
		t.Errorf("unexpected seeded model: %s", model)
	}

	record := assessment.PatientRecord{
		"age": 45, "sex": 1, "cholesterol": 200, "heart_rate": 70, "diabetes": 0,
		"family_history": 0, "smoking": 0, "obesity": 0, "alcohol": 0, "exercise_hours": 3.0,
	}
	outcome, err := assessment.NewPipeline(model.Classifier()).Assess(record)
	if err != nil {
		t.Fatalf("Assess() failed: %v", err)
	}
	if outcome.Level != assessment.LowRisk {
		t.Errorf("expected LowRisk, got %s", outcome.Level)
	}
}

func TestPostgresSource_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := classifier.Load(classifier.NewPostgresSource(db, "missing"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestPublishArtifact_NewVersionBecomesActive(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	rules := `name: heart-risk
version: 2
kind: rules
features: [age, sex, cholesterol, heart_rate, diabetes, family_history, smoking, obesity, alcohol, exercise_hours]
rules:
  expression: "age >= 40.0"
`
	version, err := classifier.PublishArtifact(db, []byte(rules))
	if err != nil {
		t.Fatalf("PublishArtifact() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 after seed, got %d", version)
	}

	var active int
	if err := db.QueryRow(`SELECT COUNT(*) FROM model_artifacts WHERE name = 'heart-risk' AND active = true`).Scan(&active); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if active != 1 {
		t.Errorf("expected exactly one active version, got %d", active)
	}

	model, err := classifier.Load(classifier.NewPostgresSource(db, "heart-risk"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if model.Kind != classifier.KindRules || model.HasProbabilities() {
		t.Errorf("expected the published rules model, got %s", model)
	}
	if model.Version != version {
		t.Errorf("loaded model reports version %d, stored row is %d", model.Version, version)
	}
}

func TestPublishArtifact_RejectsStaleVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	shipped, err := os.ReadFile(filepath.Join("..", "models", "heart_model.yaml"))
	if err != nil {
		t.Fatalf("failed to read shipped artifact: %v", err)
	}

	// the seed already holds heart-risk v1
	_, err = classifier.PublishArtifact(db, shipped)
	var stale *classifier.StaleVersionError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleVersionError, got %v", err)
	}
	if stale.Version != 1 || stale.Current != 1 {
		t.Errorf("unexpected versions in error: %+v", stale)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM model_artifacts WHERE name = 'heart-risk'`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("stale publish should not store a row, found %d rows", count)
	}

	model, err := classifier.Load(classifier.NewPostgresSource(db, "heart-risk"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if model.Version != 1 {
		t.Errorf("expected seeded v1 to stay active, got %s", model)
	}
}

func TestPublishArtifact_SkippedVersionIsKept(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	rules := `name: heart-risk
version: 5
kind: rules
features: [age, sex, cholesterol, heart_rate, diabetes, family_history, smoking, obesity, alcohol, exercise_hours]
rules:
  expression: "heart_rate >= 100"
`
	version, err := classifier.PublishArtifact(db, []byte(rules))
	if err != nil {
		t.Fatalf("PublishArtifact() failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected declared version 5, got %d", version)
	}

	var stored int
	if err := db.QueryRow(`SELECT version FROM model_artifacts WHERE name = 'heart-risk' AND active = true`).Scan(&stored); err != nil {
		t.Fatalf("active query failed: %v", err)
	}
	model, err := classifier.Load(classifier.NewPostgresSource(db, "heart-risk"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if stored != 5 || model.Version != 5 {
		t.Errorf("row version %d and model version %d should both be 5", stored, model.Version)
	}
}

func TestPublishArtifact_RejectsInvalid(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := classifier.PublishArtifact(db, []byte("name: broken\nkind: rules\nfeatures: [age]\nrules: {expression: 'true'}\n"))
	if err == nil {
		t.Fatal("PublishArtifact() should reject an artifact with the wrong features")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM model_artifacts WHERE name = 'broken'`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected artifact should not be stored, found %d rows", count)
	}
}
