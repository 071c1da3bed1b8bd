package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/studyforge/studyforge-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed plan store. A plan row carries the queryable
// metadata columns plus the full plan as a JSON payload; plans are written
// and replaced wholesale, never merged row by row.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.PlanStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.studyforge/data/plans.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".studyforge", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "plans.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SavePlan stores a plan, replacing any existing plan with the same cache
// key.
func (s *Store) SavePlan(ctx context.Context, plan *domain.LearningPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshalling plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, cache_key, title, author, file_name, word_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			id = excluded.id,
			title = excluded.title,
			author = excluded.author,
			file_name = excluded.file_name,
			word_count = excluded.word_count,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, plan.ID, plan.CacheKey, plan.Meta.Title, plan.Meta.Author,
		plan.Meta.FileName, plan.Meta.WordCount, string(payload), plan.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*domain.LearningPlan, error) {
	return s.queryPlan(ctx, "SELECT payload FROM plans WHERE id = ?", id)
}

// GetPlanByCacheKey retrieves the plan for a content + configuration
// fingerprint.
func (s *Store) GetPlanByCacheKey(ctx context.Context, key string) (*domain.LearningPlan, error) {
	return s.queryPlan(ctx, "SELECT payload FROM plans WHERE cache_key = ?", key)
}

func (s *Store) queryPlan(ctx context.Context, query, arg string) (*domain.LearningPlan, error) {
	var payload string
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	var plan domain.LearningPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, fmt.Errorf("unmarshalling plan: %w", err)
	}
	return &plan, nil
}

// ListPlans returns plan summaries, newest first. Summaries carry the
// metadata columns only; topics and passages stay in the payload until a
// plan is fetched by ID.
func (s *Store) ListPlans(ctx context.Context) ([]domain.LearningPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cache_key, title, author, file_name, word_count, created_at
		FROM plans ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.LearningPlan
	for rows.Next() {
		var plan domain.LearningPlan
		var author sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&plan.ID, &plan.CacheKey, &plan.Meta.Title, &author,
			&plan.Meta.FileName, &plan.Meta.WordCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plan.Meta.Author = author.String
		if createdAt.Valid {
			plan.CreatedAt = createdAt.Time
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a plan.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
