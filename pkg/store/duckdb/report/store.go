package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/models/store"
	"github.com/de-tools/costseg/pkg/store/duckdb"
)

// Store persists whole report documents. There is no partial update: Update
// replaces the stored document.
type Store interface {
	Create(ctx context.Context, report store.Report) error
	Get(ctx context.Context, id string) (*store.Report, error)
	Update(ctx context.Context, report store.Report) error
	List(ctx context.Context) ([]store.Report, error)
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

func (s *defaultStore) Create(ctx context.Context, report store.Report) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO reports (id, template_id, name, document, updated_at) VALUES (?, ?, ?, ?, ?)`,
		report.ID, report.TemplateID, report.Name, string(report.Document), report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Report, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, template_id, name, document, updated_at FROM reports WHERE id = ?`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

func (s *defaultStore) Update(ctx context.Context, report store.Report) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE reports SET name = ?, document = ?, updated_at = ? WHERE id = ?`,
		report.Name, string(report.Document), report.UpdatedAt, report.ID,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %s: %w", report.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *defaultStore) List(ctx context.Context) ([]store.Report, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT id, template_id, name, document, updated_at FROM reports ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]store.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*store.Report, error) {
	var (
		report   store.Report
		document string
	)
	if err := row.Scan(&report.ID, &report.TemplateID, &report.Name, &document, &report.UpdatedAt); err != nil {
		return nil, err
	}
	report.Document = []byte(document)
	return &report, nil
}
