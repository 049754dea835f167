package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/costseg/pkg/config"
	"github.com/de-tools/costseg/pkg/metrics"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/de-tools/costseg/pkg/store/assets"
	"github.com/de-tools/costseg/pkg/store/duckdb"
	reportstore "github.com/de-tools/costseg/pkg/store/duckdb/report"
	templatestore "github.com/de-tools/costseg/pkg/store/duckdb/template"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// App holds the wired services shared by the web and terminal entrypoints.
type App struct {
	DB      *sql.DB
	Reports *report.DefaultService
	Metrics *metrics.Metrics
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Storage.DbPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	templates, err := templatestore.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create template store: %w", err)
	}
	reports, err := reportstore.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create report store: %w", err)
	}

	assetStore, err := NewAssetStore(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, err
	}

	m := metrics.New()
	svc := report.NewService(templates, reports, assetStore,
		report.WithMetrics(m),
		report.WithTransactions(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return duckdb.InTransaction(ctx, db, fn)
		}),
	)

	logger.Info().
		Str("db_path", cfg.Storage.DbPath).
		Str("backend", cfg.Storage.Backend).
		Msg("storage ready")

	return &App{
		DB:      db,
		Reports: svc,
		Metrics: m,
	}, nil
}

func NewAssetStore(ctx context.Context, cfg config.StorageConfig) (assets.Store, error) {
	switch cfg.Backend {
	case config.BackendS3:
		store, err := assets.NewS3StoreFromConfig(ctx, assets.S3Settings{
			Bucket: cfg.S3.Bucket,
			Prefix: cfg.S3.Prefix,
			Region: cfg.S3.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 asset store: %w", err)
		}
		return store, nil
	default:
		osFs := afero.NewOsFs()
		if err := osFs.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		return assets.NewFSStore(afero.NewBasePathFs(osFs, cfg.DataDir)), nil
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}
