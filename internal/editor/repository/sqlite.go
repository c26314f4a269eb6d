package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"interior-planner/internal/editor/project"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("project not found")

// ============================================================
// SQLite Repository
// ============================================================

// ProjectInfo строка списка проектов без тела документа.
type ProjectInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	WallCount  int    `json:"wallCount"`
	AssetCount int    `json:"assetCount"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции по порядку имён.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Save вставляет или перезаписывает проект с данным id.
func (r *Repository) Save(ctx context.Context, id string, doc project.Document) error {
	data, err := project.Encode(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, version, wall_count, asset_count, document)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            version = excluded.version,
            wall_count = excluded.wall_count,
            asset_count = excluded.asset_count,
            document = excluded.document,
            updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
    `, id, doc.ProjectName, project.CurrentVersion, len(doc.Walls), len(doc.Assets), string(data))
	if err != nil {
		return fmt.Errorf("save project %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (project.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE id = ?`, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return project.Document{}, err
	}
	return project.Decode([]byte(data))
}

func (r *Repository) List(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, version, wall_count, asset_count, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ProjectInfo{}
	for rows.Next() {
		var p ProjectInfo
		if err := rows.Scan(&p.ID, &p.Name, &p.Version, &p.WallCount, &p.AssetCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name() < names[j].Name() })

	for _, entry := range names {
		data, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
