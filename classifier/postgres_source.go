package classifier

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresSource reads the latest active version of a named artifact from
// the model_artifacts table. It never writes.
type PostgresSource struct {
	db   *sql.DB
	name string
}

// NewPostgresSource creates a source for the artifact called name
func NewPostgresSource(db *sql.DB, name string) *PostgresSource {
	return &PostgresSource{
		db:   db,
		name: name,
	}
}

// Fetch returns the definition of the newest active version
func (s *PostgresSource) Fetch() ([]byte, error) {
	var definition string
	err := s.db.QueryRow(`
		SELECT definition
		FROM model_artifacts
		WHERE name = $1 AND active = true
		ORDER BY version DESC
		LIMIT 1
	`, s.name).Scan(&definition)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model artifact %s not found", s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model artifact: %w", err)
	}

	return []byte(definition), nil
}

// Describe names the table row being read
func (s *PostgresSource) Describe() string {
	return "postgres model_artifacts/" + s.name
}

// StaleVersionError rejects a publish whose declared version is not above the
// newest stored version of the same artifact
type StaleVersionError struct {
	Name    string
	Version int
	Current int
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("model artifact %s version %d is not newer than stored version %d", e.Name, e.Version, e.Current)
}

// PublishArtifact validates an artifact and stores it under its declared
// version as the active one, deactivating older versions. The declared version
// must exceed every stored version so the loaded model reports the row it came from.
// Used by the migrate tool; the server only reads.
func PublishArtifact(db *sql.DB, data []byte) (int, error) {
	artifact, err := DecodeArtifact(data)
	if err != nil {
		return 0, err
	}
	// catches expressions that parse but do not compile
	if _, err := NewModel(artifact); err != nil {
		return 0, err
	}

	if artifact.Version < 1 {
		return 0, fmt.Errorf("model artifact %s has version %d, versions start at 1", artifact.Name, artifact.Version)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM model_artifacts
		WHERE name = $1
	`, artifact.Name).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to read stored versions: %w", err)
	}
	if artifact.Version <= current {
		return 0, &StaleVersionError{Name: artifact.Name, Version: artifact.Version, Current: current}
	}

	_, err = tx.Exec(`
		UPDATE model_artifacts
		SET active = false
		WHERE name = $1
	`, artifact.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate old artifacts: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO model_artifacts (name, version, kind, definition, active, created_at)
		VALUES ($1, $2, $3, $4, true, NOW())
	`, artifact.Name, artifact.Version, artifact.Kind, string(data))
	if err != nil {
		return 0, fmt.Errorf("failed to save artifact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit artifact: %w", err)
	}

	return artifact.Version, nil
}
