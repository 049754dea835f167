package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/models/store"
	"github.com/de-tools/costseg/pkg/store/duckdb"
)

type Store interface {
	Create(ctx context.Context, tpl store.Template) error
	Get(ctx context.Context, id string) (*store.Template, error)
	List(ctx context.Context) ([]store.Template, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) Create(ctx context.Context, tpl store.Template) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO templates (id, name, source_path, sections, created_at) VALUES (?, ?, ?, ?, ?)`,
		tpl.ID, tpl.Name, tpl.SourcePath, string(tpl.Sections), tpl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Template, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name, source_path, sections, created_at FROM templates WHERE id = ?`, id)

	tpl, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

func (s *defaultStore) List(ctx context.Context) ([]store.Template, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id, name, source_path, sections, created_at FROM templates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	templates := make([]store.Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*store.Template, error) {
	var (
		tpl      store.Template
		sections string
	)
	if err := row.Scan(&tpl.ID, &tpl.Name, &tpl.SourcePath, &sections, &tpl.CreatedAt); err != nil {
		return nil, err
	}
	tpl.Sections = []byte(sections)
	return &tpl, nil
}
