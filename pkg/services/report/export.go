package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/de-tools/costseg/pkg/adapters"
	"github.com/de-tools/costseg/pkg/metrics"
	"github.com/de-tools/costseg/pkg/models/api"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/render/pdf"
	"github.com/de-tools/costseg/pkg/services/compose"
	"github.com/de-tools/costseg/pkg/services/sections"
	"github.com/de-tools/costseg/pkg/services/totals"
	"github.com/de-tools/costseg/pkg/store/assets"
	"github.com/rs/zerolog"
)

func (s *DefaultService) Totals(ctx context.Context, id string) (totals.Totals, error) {
	r, err := s.loadReport(ctx, id)
	if err != nil {
		return totals.Totals{}, err
	}
	return totals.Compute(r.LineItems), nil
}

// UploadCover stores the image as "<reportId>-cover<ext>" and points the
// report at it.
func (s *DefaultService) UploadCover(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := s.loadReport(ctx, id); err != nil {
		return "", err
	}

	ref, err := s.assets.Put(ctx, assets.CoverName(id, filepath.Ext(filename)), r)
	if err != nil {
		return "", fmt.Errorf("store cover image: %w", err)
	}

	if _, err := s.mutate(ctx, id, func(r *domain.Report) error {
		r.CoverImagePath = ref
		return nil
	}); err != nil {
		return "", err
	}

	logger.Info().
		Str("report_id", id).
		Str("cover", ref).
		Msg("cover image uploaded")
	return ref, nil
}

// ExportPDF renders the stored report. A missing template source or cover
// image does not fail the export: the first page falls back to a blank page
// and the image is left out.
func (s *DefaultService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	timer := metrics.NewTimer()

	out, err := s.exportPDF(ctx, id)
	if err != nil {
		s.metrics.RecordExport(metrics.FormatPDF, metrics.StatusFailure, timer.Duration())
		return nil, err
	}
	s.metrics.RecordExport(metrics.FormatPDF, metrics.StatusSuccess, timer.Duration())
	return out, nil
}

func (s *DefaultService) exportPDF(ctx context.Context, id string) ([]byte, error) {
	logger := zerolog.Ctx(ctx).With().Str("report_id", id).Logger()
	ctx = logger.WithContext(ctx)

	r, err := s.loadReport(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		source []byte
		cover  *compose.Asset
	)
	if sections.IsEnabled(r.Sections, domain.SectionCover) {
		source = s.templateSource(ctx, r.TemplateID)
		cover = s.coverImage(ctx, r.CoverImagePath)
	}

	plan := compose.Compose(compose.Input{
		Report:     r,
		Totals:     totals.Compute(r.LineItems),
		CoverImage: cover,
	})

	opts := s.renderOpts
	opts.Title = r.Name
	opts.CreatedAt = r.UpdatedAt

	out, err := pdf.NewRenderer(opts).Render(ctx, plan, source)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPages(plan.PageCount())
	logger.Info().
		Int("pages", plan.PageCount()).
		Int("bytes", len(out)).
		Msg("report exported")
	return out, nil
}

func (s *DefaultService) templateSource(ctx context.Context, templateID string) []byte {
	logger := zerolog.Ctx(ctx)

	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("template_id", templateID).
			Msg("template unavailable, using blank first page")
		s.metrics.RecordRecovered(metrics.RecoveredMissingSource)
		return nil
	}

	data, err := s.assets.Open(ctx, tpl.SourcePath)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("template_id", templateID).
			Str("source", tpl.SourcePath).
			Msg("template source unreadable, using blank first page")
		s.metrics.RecordRecovered(metrics.RecoveredMissingSource)
		return nil
	}
	return data
}

func (s *DefaultService) coverImage(ctx context.Context, ref string) *compose.Asset {
	if ref == "" {
		return nil
	}

	data, err := s.assets.Open(ctx, ref)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("cover", ref).
			Msg("cover image unreadable, omitting it")
		s.metrics.RecordRecovered(metrics.RecoveredMissingAsset)
		return nil
	}
	return &compose.Asset{Ref: ref, Data: data}
}

// ExportJSON returns the structured representation used by ImportJSON.
func (s *DefaultService) ExportJSON(ctx context.Context, id string) ([]byte, error) {
	timer := metrics.NewTimer()

	r, err := s.loadReport(ctx, id)
	if err != nil {
		s.metrics.RecordExport(metrics.FormatJSON, metrics.StatusFailure, timer.Duration())
		return nil, err
	}

	out, err := json.MarshalIndent(adapters.MapReportDomainToApi(r), "", "  ")
	if err != nil {
		s.metrics.RecordExport(metrics.FormatJSON, metrics.StatusFailure, timer.Duration())
		return nil, fmt.Errorf("marshal report %s: %w", id, err)
	}

	s.metrics.RecordExport(metrics.FormatJSON, metrics.StatusSuccess, timer.Duration())
	return out, nil
}

// ImportJSON stores an exported report as a new report. The report id and
// every line item id are regenerated; everything else is kept as exported.
func (s *DefaultService) ImportJSON(ctx context.Context, data []byte) (domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	var doc api.Report
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Report{}, fmt.Errorf("%w: decode report: %v", ErrInvalidInput, err)
	}

	r := adapters.MapReportApiToDomain(doc)
	originalID := r.ID
	r.ID = s.newID()
	for i := range r.LineItems {
		r.LineItems[i].ID = s.newID()
	}
	if r.Photos == nil {
		r.Photos = []string{}
	}
	r.UpdatedAt = s.now()

	row, err := adapters.MapReportDomainToStore(r)
	if err != nil {
		return domain.Report{}, err
	}
	if err := s.reports.Create(ctx, row); err != nil {
		return domain.Report{}, err
	}

	logger.Info().
		Str("report_id", r.ID).
		Str("imported_from", originalID).
		Msg("report imported")
	return r, nil
}
