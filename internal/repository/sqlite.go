package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/snailderby/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entrants (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			trait TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ==================== Entrant Methods ====================

// ListEntrants returns the catalog ordered by id
func (r *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, trait, description FROM entrants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entrants []models.Entrant
	for rows.Next() {
		var e models.Entrant
		var trait string
		if err := rows.Scan(&e.ID, &e.Name, &trait, &e.Description); err != nil {
			return nil, err
		}
		e.Trait = models.Trait(trait)
		if !e.Trait.Valid() {
			return nil, fmt.Errorf("entrant %q: %w: %s", e.Name, ErrInvalidTrait, trait)
		}
		entrants = append(entrants, e)
	}
	return entrants, rows.Err()
}

// GetEntrant returns one entrant by id
func (r *Repository) GetEntrant(ctx context.Context, id int) (*models.Entrant, error) {
	var e models.Entrant
	var trait string
	err := r.db.QueryRowContext(ctx, `SELECT id, name, trait, description FROM entrants WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &trait, &e.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Trait = models.Trait(trait)
	return &e, nil
}

// CountEntrants returns the number of catalog rows
func (r *Repository) CountEntrants(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entrants`).Scan(&n)
	return n, err
}

// UpsertEntrant inserts or replaces the entrant with e.ID
func (r *Repository) UpsertEntrant(ctx context.Context, e models.Entrant) error {
	if !e.Trait.Valid() {
		return fmt.Errorf("entrant %q: %w: %s", e.Name, ErrInvalidTrait, e.Trait)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entrants (id, name, trait, description) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, trait = excluded.trait, description = excluded.description`,
		e.ID, e.Name, string(e.Trait), e.Description)
	return err
}

// SeedEntrants fills an empty catalog in one transaction. It returns the
// number of rows inserted, 0 when the catalog already had entrants.
func (r *Repository) SeedEntrants(ctx context.Context, entrants []models.Entrant) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entrants`).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entrants (id, name, trait, description) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range entrants {
		if !e.Trait.Valid() {
			return 0, fmt.Errorf("entrant %q: %w: %s", e.Name, ErrInvalidTrait, e.Trait)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, string(e.Trait), e.Description); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entrants), nil
}
