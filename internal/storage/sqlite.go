package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meur/buildforge/internal/models"
)

// ErrBuildNotFound is returned by writes that target a missing build
var ErrBuildNotFound = errors.New("build not found")

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			title TEXT,
			description TEXT,
			weapon TEXT NOT NULL,
			headgear TEXT NOT NULL,
			headgear_item TEXT,
			clothing TEXT NOT NULL,
			clothing_item TEXT,
			shoes TEXT NOT NULL,
			shoes_item TEXT,
			modes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_weapon ON builds(weapon, updated_at)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			prefers_ap_view INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Builds ---

const buildColumns = `id, title, description, weapon, headgear, headgear_item,
	clothing, clothing_item, shoes, shoes_item, modes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (*models.Build, error) {
	var b models.Build
	var title, description, headItem, clothingItem, shoesItem, modes sql.NullString
	var headgear, clothing, shoes string

	err := row.Scan(&b.ID, &title, &description, &b.Weapon, &headgear, &headItem,
		&clothing, &clothingItem, &shoes, &shoesItem, &modes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	b.Title = title.String
	b.Description = description.String
	b.HeadgearItem = headItem.String
	b.ClothingItem = clothingItem.String
	b.ShoesItem = shoesItem.String

	if err := json.Unmarshal([]byte(headgear), &b.Headgear); err != nil {
		return nil, fmt.Errorf("build %s: bad headgear: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(clothing), &b.Clothing); err != nil {
		return nil, fmt.Errorf("build %s: bad clothing: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(shoes), &b.Shoes); err != nil {
		return nil, fmt.Errorf("build %s: bad shoes: %w", b.ID, err)
	}
	if modes.Valid && modes.String != "" {
		if err := json.Unmarshal([]byte(modes.String), &b.Modes); err != nil {
			return nil, fmt.Errorf("build %s: bad modes: %w", b.ID, err)
		}
	}
	return &b, nil
}

// SearchBuilds returns the builds for a weapon, most recently updated first.
// An empty weapon matches nothing.
func (s *Store) SearchBuilds(ctx context.Context, weapon string) ([]models.Build, error) {
	builds := []models.Build{}
	if weapon == "" {
		return builds, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds WHERE weapon = ? ORDER BY updated_at DESC, id
	`, weapon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// GetBuild returns a build by ID, or nil if it does not exist
func (s *Store) GetBuild(ctx context.Context, id string) (*models.Build, error) {
	b, err := scanBuild(s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// buildArgs encodes the stored columns of an update, in column order
// from title through modes
func buildArgs(u *models.BuildUpdate) ([]any, error) {
	headgear, err := json.Marshal(u.Headgear)
	if err != nil {
		return nil, err
	}
	clothing, err := json.Marshal(u.Clothing)
	if err != nil {
		return nil, err
	}
	shoes, err := json.Marshal(u.Shoes)
	if err != nil {
		return nil, err
	}
	var modes any
	if len(u.Modes) > 0 {
		m, err := json.Marshal(u.Modes)
		if err != nil {
			return nil, err
		}
		modes = string(m)
	}

	return []any{
		nullable(u.Title), nullable(u.Description), u.Weapon,
		string(headgear), nullable(u.HeadgearItem),
		string(clothing), nullable(u.ClothingItem),
		string(shoes), nullable(u.ShoesItem),
		modes,
	}, nil
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateBuild stores a new build
func (s *Store) CreateBuild(ctx context.Context, u *models.BuildUpdate) (*models.Build, error) {
	args, err := buildArgs(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode build: %w", err)
	}
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO builds (id, title, description, weapon, headgear, headgear_item,
			clothing, clothing_item, shoes, shoes_item, modes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, append(append([]any{id}, args...), now, now)...)
	if err != nil {
		return nil, err
	}

	return &models.Build{
		ID:           id,
		Title:        deref(u.Title),
		Description:  deref(u.Description),
		Weapon:       u.Weapon,
		Headgear:     u.Headgear,
		HeadgearItem: deref(u.HeadgearItem),
		Clothing:     u.Clothing,
		ClothingItem: deref(u.ClothingItem),
		Shoes:        u.Shoes,
		ShoesItem:    deref(u.ShoesItem),
		Modes:        u.Modes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateBuild replaces every editable field of a build
func (s *Store) UpdateBuild(ctx context.Context, id string, u *models.BuildUpdate) error {
	args, err := buildArgs(u)
	if err != nil {
		return fmt.Errorf("failed to encode build: %w", err)
	}
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.ExecContext(ctx, `
		UPDATE builds SET title = ?, description = ?, weapon = ?,
			headgear = ?, headgear_item = ?,
			clothing = ?, clothing_item = ?,
			shoes = ?, shoes_item = ?,
			modes = ?, updated_at = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// DeleteBuild removes a build by ID
func (s *Store) DeleteBuild(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM builds WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBuildNotFound
	}
	return nil
}

// BulkCreateBuilds inserts or replaces builds in a transaction.
// Builds without an ID get a new one; zero timestamps become now.
func (s *Store) BulkCreateBuilds(ctx context.Context, builds []models.Build) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO builds (id, title, description, weapon, headgear, headgear_item,
			clothing, clothing_item, shoes, shoes_item, modes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range builds {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
		args, err := buildArgs(updateFromBuild(&b))
		if err != nil {
			return fmt.Errorf("failed to encode build %s: %w", b.ID, err)
		}
		args = append(append([]any{b.ID}, args...), b.CreatedAt.UTC(), b.UpdatedAt.UTC())
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert build %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

func updateFromBuild(b *models.Build) *models.BuildUpdate {
	return &models.BuildUpdate{
		Weapon:       b.Weapon,
		Title:        &b.Title,
		Description:  &b.Description,
		Headgear:     b.Headgear,
		HeadgearItem: &b.HeadgearItem,
		Clothing:     b.Clothing,
		ClothingItem: &b.ClothingItem,
		Shoes:        b.Shoes,
		ShoesItem:    &b.ShoesItem,
		Modes:        b.Modes,
	}
}
