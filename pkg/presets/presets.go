// Package presets stores named solid dimensions in SQLite so a lesson can
// return to "the tall cone" or "the flat box" without retyping them.
package presets

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/jaring/pkg/solid"
	"github.com/google/uuid"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no preset has the requested id.
var ErrNotFound = errors.New("presets: not found")

// Preset is a saved set of dimensions for one solid.
type Preset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Shape     solid.Type   `json:"shape"`
	Params    solid.Params `json:"params"`
	CreatedAt time.Time    `json:"created_at"`
}

// ============================================================
// SQLite Store
// ============================================================

// Store persists presets.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("presets: mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("presets: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("presets: apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a new preset after checking its parameters against the
// shape schema. Values are clamped; keys outside the schema are dropped.
func (s *Store) Save(ctx context.Context, name string, t solid.Type, p solid.Params) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("presets: empty name")
	}
	if err := solid.CheckSchema(t, p); err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	clean := make(solid.Params)
	for _, ps := range solid.Schema(t) {
		clean[ps.Key] = solid.Clamp(p[ps.Key])
	}

	pr := &Preset{
		ID:        uuid.NewString(),
		Name:      name,
		Shape:     t,
		Params:    clean,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	raw, err := json.Marshal(pr.Params)
	if err != nil {
		return nil, fmt.Errorf("presets: encode params: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO presets (id, name, shape, params, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, pr.ID, pr.Name, pr.Shape.String(), string(raw), pr.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("presets: insert: %w", err)
	}
	return pr, nil
}

// Get returns the preset with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Preset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, shape, params, created_at
        FROM presets
        WHERE id = ?
    `, id)
	pr, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return pr, err
}

// List returns presets oldest first. A nil shape lists every shape.
func (s *Store) List(ctx context.Context, shape *solid.Type) ([]*Preset, error) {
	query := `SELECT id, name, shape, params, created_at FROM presets`
	var args []any
	if shape != nil {
		query += ` WHERE shape = ?`
		args = append(args, shape.String())
	}
	query += ` ORDER BY created_at, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("presets: list: %w", err)
	}
	defer rows.Close()

	var out []*Preset
	for rows.Next() {
		pr, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// Delete removes a preset. Deleting a missing id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("presets: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("presets: delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (*Preset, error) {
	var pr Preset
	var shape, raw, at string
	if err := sc.Scan(&pr.ID, &pr.Name, &shape, &raw, &at); err != nil {
		return nil, err
	}
	t, err := solid.Parse(shape)
	if err != nil {
		return nil, fmt.Errorf("presets: %s: %w", pr.ID, err)
	}
	pr.Shape = t
	if err := json.Unmarshal([]byte(raw), &pr.Params); err != nil {
		return nil, fmt.Errorf("presets: %s: decode params: %w", pr.ID, err)
	}
	if pr.CreatedAt, err = time.Parse(timeLayout, at); err != nil {
		return nil, fmt.Errorf("presets: %s: created_at: %w", pr.ID, err)
	}
	return &pr, nil
}
