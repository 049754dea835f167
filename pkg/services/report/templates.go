package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/costseg/pkg/adapters"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/sections"
	"github.com/de-tools/costseg/pkg/store/assets"
	"github.com/rs/zerolog"
)

const defaultTemplateName = "Untitled Template"

// CreateTemplate stores the uploaded source document and registers a template
// carrying the full default section catalog.
func (s *DefaultService) CreateTemplate(ctx context.Context, name string, source io.Reader) (domain.Template, error) {
	logger := zerolog.Ctx(ctx)

	data, err := io.ReadAll(source)
	if err != nil {
		return domain.Template{}, fmt.Errorf("read template upload: %w", err)
	}
	if len(data) == 0 {
		return domain.Template{}, fmt.Errorf("%w: template file is empty", ErrInvalidInput)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultTemplateName
	}

	tpl := domain.Template{
		ID:        s.newID(),
		Name:      name,
		Sections:  sections.Defaults(),
		CreatedAt: s.now(),
	}

	ref, err := s.assets.Put(ctx, assets.TemplateName(tpl.ID), bytes.NewReader(data))
	if err != nil {
		return domain.Template{}, fmt.Errorf("store template source: %w", err)
	}
	tpl.SourcePath = ref

	row, err := adapters.MapTemplateDomainToStore(tpl)
	if err != nil {
		return domain.Template{}, err
	}
	if err := s.templates.Create(ctx, row); err != nil {
		return domain.Template{}, err
	}

	logger.Info().
		Str("template_id", tpl.ID).
		Str("source", ref).
		Int("bytes", len(data)).
		Msg("template created")
	return tpl, nil
}

func (s *DefaultService) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	row, err := s.templates.Get(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}
	return adapters.MapTemplateStoreToDomain(*row)
}

func (s *DefaultService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Template, 0, len(rows))
	for _, row := range rows {
		tpl, err := adapters.MapTemplateStoreToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", row.ID, err)
		}
		out = append(out, tpl)
	}
	return out, nil
}
