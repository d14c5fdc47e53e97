package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"formwork-cad/internal/converter/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("drawing not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema migration.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Create stores a converted set under a fresh id and returns the drawing.
func (r *Repository) Create(ctx context.Context, name string, canvasHeight float64, budget int, set *models.LayeredPrimitiveSet) (*models.Drawing, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("encode set: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO drawings (id, name, canvas_height, point_budget, total_points, was_limited, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, id, name, canvasHeight, budget, set.Metadata.TotalPoints, set.Metadata.WasLimited, string(payload))
	if err != nil {
		return nil, fmt.Errorf("insert drawing: %w", err)
	}

	return r.Get(ctx, id)
}

// Get loads a drawing including its primitive set.
func (r *Repository) Get(ctx context.Context, id string) (*models.Drawing, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, canvas_height, point_budget, total_points, was_limited, created_at, payload
        FROM drawings
        WHERE id = ?
    `, id)

	var (
		d       models.Drawing
		payload string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.CanvasHeight, &d.PointBudget, &d.TotalPoints, &d.WasLimited, &d.CreatedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var set models.LayeredPrimitiveSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, fmt.Errorf("decode set %s: %w", id, err)
	}
	d.Set = &set
	return &d, nil
}

// List returns drawing summaries, newest first, without their sets.
func (r *Repository) List(ctx context.Context) ([]models.Drawing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, canvas_height, point_budget, total_points, was_limited, created_at
        FROM drawings
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Drawing{}
	for rows.Next() {
		var d models.Drawing
		if err := rows.Scan(&d.ID, &d.Name, &d.CanvasHeight, &d.PointBudget, &d.TotalPoints, &d.WasLimited, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite opens sqlite at the given path, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
