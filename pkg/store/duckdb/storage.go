package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const TemplatesTableSchema = `
	CREATE TABLE IF NOT EXISTS templates (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		source_path VARCHAR NOT NULL,
		sections VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const ReportsTableSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id VARCHAR PRIMARY KEY,
		template_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		document VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
`

var bootQueries = []string{
	TemplatesTableSchema,
	ReportsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

// InTransaction runs fn with a transaction bound to ctx, committing when fn succeeds.
func InTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(WithTransaction(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
