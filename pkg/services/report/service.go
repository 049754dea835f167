package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/de-tools/costseg/pkg/adapters"
	"github.com/de-tools/costseg/pkg/metrics"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/render/pdf"
	"github.com/de-tools/costseg/pkg/services/totals"
	"github.com/de-tools/costseg/pkg/store/assets"
	reportstore "github.com/de-tools/costseg/pkg/store/duckdb/report"
	templatestore "github.com/de-tools/costseg/pkg/store/duckdb/template"
	"github.com/google/uuid"
)

// ErrInvalidInput marks caller mistakes: unknown section keys, unreadable
// import documents, empty uploads.
var ErrInvalidInput = errors.New("invalid input")

type Service interface {
	CreateTemplate(ctx context.Context, name string, source io.Reader) (domain.Template, error)
	GetTemplate(ctx context.Context, id string) (domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)

	CreateReport(ctx context.Context, templateID, name string) (domain.Report, error)
	GetReport(ctx context.Context, id string) (domain.Report, error)
	ListReports(ctx context.Context) ([]domain.Report, error)
	ReplaceReport(ctx context.Context, id string, next domain.Report) (domain.Report, error)

	SetField(ctx context.Context, id, key, value string) (domain.Report, error)
	SetNarrative(ctx context.Context, id, key, text string) (domain.Report, error)
	ToggleSection(ctx context.Context, id string, key domain.SectionKey, enabled bool) (domain.Report, error)
	AddLineItem(ctx context.Context, id string) (domain.LineItem, error)
	UpdateLineItem(ctx context.Context, id, itemID string, update domain.LineItemUpdate) (domain.LineItem, error)
	RemoveLineItem(ctx context.Context, id, itemID string) error

	Totals(ctx context.Context, id string) (totals.Totals, error)
	UploadCover(ctx context.Context, id, filename string, r io.Reader) (string, error)
	ExportPDF(ctx context.Context, id string) ([]byte, error)
	ExportJSON(ctx context.Context, id string) ([]byte, error)
	ImportJSON(ctx context.Context, data []byte) (domain.Report, error)
}

// TxFunc runs fn so that the store calls it makes commit or roll back together.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type Option func(*DefaultService)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DefaultService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *DefaultService) {
		s.now = now
	}
}

func WithIDs(newID func() string) Option {
	return func(s *DefaultService) {
		s.newID = newID
	}
}

func WithRenderOptions(opts pdf.Options) Option {
	return func(s *DefaultService) {
		s.renderOpts = opts
	}
}

func WithTransactions(tx TxFunc) Option {
	return func(s *DefaultService) {
		s.tx = tx
	}
}

type DefaultService struct {
	templates templatestore.Store
	reports   reportstore.Store
	assets    assets.Store

	metrics    *metrics.Metrics
	renderOpts pdf.Options
	now        func() time.Time
	newID      func() string
	tx         TxFunc

	// mu serialises read-modify-write cycles on stored reports.
	mu sync.Mutex
}

func NewService(
	templates templatestore.Store,
	reports reportstore.Store,
	assetStore assets.Store,
	opts ...Option,
) *DefaultService {
	svc := &DefaultService{
		templates:  templates,
		reports:    reports,
		assets:     assetStore,
		renderOpts: pdf.DefaultOptions(),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *DefaultService) loadReport(ctx context.Context, id string) (domain.Report, error) {
	row, err := s.reports.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	return adapters.MapReportStoreToDomain(*row)
}

func (s *DefaultService) saveReport(ctx context.Context, r domain.Report) error {
	row, err := adapters.MapReportDomainToStore(r)
	if err != nil {
		return err
	}
	return s.reports.Update(ctx, row)
}

// mutate loads the report, applies fn and stores the result with a fresh
// updatedAt. Nothing is written when fn fails.
func (s *DefaultService) mutate(ctx context.Context, id string, fn func(r *domain.Report) error) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Report
	err := s.tx(ctx, func(ctx context.Context) error {
		r, err := s.loadReport(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&r); err != nil {
			return err
		}
		r.UpdatedAt = s.now()
		if err := s.saveReport(ctx, r); err != nil {
			return fmt.Errorf("save report %s: %w", id, err)
		}
		out = r
		return nil
	})
	return out, err
}
