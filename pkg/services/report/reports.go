package report

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/costseg/pkg/adapters"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/sections"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

var starterNarrative = map[string]string{
	domain.NarrativeSummary:           "We are pleased to provide this cost segregation summary letter.",
	domain.NarrativeMethodology:       "Our methodology follows IRS guidelines and industry best practices.",
	domain.NarrativeCertifications:    "We certify that this report was prepared by qualified professionals.",
	domain.NarrativeTaxClassification: "Assets have been classified into appropriate recovery periods.",
}

var starterLineItems = []domain.LineItem{
	{Category: "5-year", Description: "Carpeting", Qty: 1200, UnitCost: 8},
	{Category: "5-year", Description: "Millwork", Qty: 1, UnitCost: 12500},
	{Category: "15-year", Description: "Landscaping", Qty: 1, UnitCost: 18000},
	{Category: "39-year", Description: "Building Shell", Qty: 1, UnitCost: 325000},
}

// CreateReport starts a report from a template: the template's sections are
// copied, fields are blank apart from today's report date, and the narrative and
// ledger are seeded with starter content.
func (s *DefaultService) CreateReport(ctx context.Context, templateID, name string) (domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Report " + now.Format(dateLayout)
	}

	tplSections := slices.Clone(tpl.Sections)
	if len(tplSections) == 0 {
		tplSections = sections.Defaults()
	}

	fields := make(map[string]string, len(domain.FieldKeys))
	for _, key := range domain.FieldKeys {
		fields[key] = ""
	}
	fields[domain.FieldReportDate] = now.Format(dateLayout)

	narrative := make(map[string]string, len(starterNarrative))
	for key, text := range starterNarrative {
		narrative[key] = text
	}

	items := make([]domain.LineItem, 0, len(starterLineItems))
	for _, item := range starterLineItems {
		item.ID = s.newID()
		items = append(items, item)
	}

	r := domain.Report{
		ID:         s.newID(),
		TemplateID: tpl.ID,
		Name:       name,
		Fields:     fields,
		Sections:   tplSections,
		Narrative:  narrative,
		LineItems:  items,
		Photos:     []string{},
		UpdatedAt:  now,
	}

	row, err := adapters.MapReportDomainToStore(r)
	if err != nil {
		return domain.Report{}, err
	}
	if err := s.reports.Create(ctx, row); err != nil {
		return domain.Report{}, err
	}

	logger.Info().
		Str("report_id", r.ID).
		Str("template_id", tpl.ID).
		Msg("report created")
	return r, nil
}

func (s *DefaultService) GetReport(ctx context.Context, id string) (domain.Report, error) {
	return s.loadReport(ctx, id)
}

func (s *DefaultService) ListReports(ctx context.Context) ([]domain.Report, error) {
	rows, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Report, 0, len(rows))
	for _, row := range rows {
		r, err := adapters.MapReportStoreToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ReplaceReport overwrites every editable attribute with next. The id, template
// and cover reference of the stored report are kept.
func (s *DefaultService) ReplaceReport(ctx context.Context, id string, next domain.Report) (domain.Report, error) {
	return s.mutate(ctx, id, func(r *domain.Report) error {
		r.Replace(next, s.now())
		return nil
	})
}

func (s *DefaultService) SetField(ctx context.Context, id, key, value string) (domain.Report, error) {
	if key == "" {
		return domain.Report{}, fmt.Errorf("%w: field key is empty", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(r *domain.Report) error {
		r.SetField(key, value)
		return nil
	})
}

func (s *DefaultService) SetNarrative(ctx context.Context, id, key, text string) (domain.Report, error) {
	if key == "" {
		return domain.Report{}, fmt.Errorf("%w: narrative key is empty", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(r *domain.Report) error {
		r.SetNarrative(key, text)
		return nil
	})
}

// ToggleSection enables or disables a catalog section. A catalog section the
// report does not carry yet is appended with its catalog label.
func (s *DefaultService) ToggleSection(ctx context.Context, id string, key domain.SectionKey, enabled bool) (domain.Report, error) {
	kind, ok := sections.Lookup(key)
	if !ok || !kind.Toggleable {
		return domain.Report{}, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, key)
	}

	return s.mutate(ctx, id, func(r *domain.Report) error {
		if !r.SetSectionEnabled(key, enabled) {
			r.Sections = append(r.Sections, domain.Section{Key: key, Label: kind.Label, Enabled: enabled})
		}
		return nil
	})
}

func (s *DefaultService) AddLineItem(ctx context.Context, id string) (domain.LineItem, error) {
	var added domain.LineItem
	_, err := s.mutate(ctx, id, func(r *domain.Report) error {
		added = r.AddLineItem(s.newID())
		return nil
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	return added, nil
}

func (s *DefaultService) UpdateLineItem(ctx context.Context, id, itemID string, update domain.LineItemUpdate) (domain.LineItem, error) {
	var updated domain.LineItem
	_, err := s.mutate(ctx, id, func(r *domain.Report) error {
		item, err := r.UpdateLineItem(itemID, update)
		if err != nil {
			return fmt.Errorf("line item %s: %w", itemID, err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	return updated, nil
}

func (s *DefaultService) RemoveLineItem(ctx context.Context, id, itemID string) error {
	_, err := s.mutate(ctx, id, func(r *domain.Report) error {
		if err := r.RemoveLineItem(itemID); err != nil {
			return fmt.Errorf("line item %s: %w", itemID, err)
		}
		return nil
	})
	return err
}
