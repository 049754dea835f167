package adapters

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/de-tools/costseg/pkg/models/api"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/models/store"
	"github.com/de-tools/costseg/pkg/services/totals"
)

func MapSectionsDomainToApi(sections []domain.Section) []api.Section {
	out := make([]api.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, api.Section{Key: string(s.Key), Label: s.Label, Enabled: s.Enabled})
	}
	return out
}

func MapSectionsApiToDomain(sections []api.Section) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, domain.Section{Key: domain.SectionKey(s.Key), Label: s.Label, Enabled: s.Enabled})
	}
	return out
}

func MapLineItemDomainToApi(item domain.LineItem) api.LineItem {
	out := api.LineItem{
		ID:          item.ID,
		Category:    item.Category,
		Description: item.Description,
		Qty:         item.Qty,
		UnitCost:    item.UnitCost,
	}
	if v, ok := item.TotalOverride.Get(); ok {
		out.TotalOverride = &v
	}
	return out
}

func MapLineItemApiToDomain(item api.LineItem) domain.LineItem {
	out := domain.LineItem{
		ID:          item.ID,
		Category:    item.Category,
		Description: item.Description,
		Qty:         item.Qty,
		UnitCost:    item.UnitCost,
	}
	if item.TotalOverride != nil {
		out.TotalOverride = domain.OverrideOf(*item.TotalOverride)
	}
	return out
}

func MapLineItemPatchToDomain(p api.LineItemPatch) domain.LineItemUpdate {
	update := domain.LineItemUpdate{
		Category:    p.Category,
		Description: p.Description,
		Qty:         p.Qty,
		UnitCost:    p.UnitCost,
	}
	switch {
	case p.ClearOverride:
		override := domain.NoOverride()
		update.TotalOverride = &override
	case p.TotalOverride != nil:
		override := domain.OverrideOf(*p.TotalOverride)
		update.TotalOverride = &override
	}
	return update
}

func MapReportDomainToApi(r domain.Report) api.Report {
	items := make([]api.LineItem, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		items = append(items, MapLineItemDomainToApi(item))
	}
	photos := slices.Clone(r.Photos)
	if photos == nil {
		photos = []string{}
	}

	return api.Report{
		ID:             r.ID,
		TemplateID:     r.TemplateID,
		Name:           r.Name,
		Fields:         nonNilMap(r.Fields),
		Sections:       MapSectionsDomainToApi(r.Sections),
		Narrative:      nonNilMap(r.Narrative),
		LineItems:      items,
		CoverImagePath: r.CoverImagePath,
		Photos:         photos,
		UpdatedAt:      r.UpdatedAt,
	}
}

func MapReportApiToDomain(r api.Report) domain.Report {
	items := make([]domain.LineItem, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		items = append(items, MapLineItemApiToDomain(item))
	}

	return domain.Report{
		ID:             r.ID,
		TemplateID:     r.TemplateID,
		Name:           r.Name,
		Fields:         nonNilMap(r.Fields),
		Sections:       MapSectionsApiToDomain(r.Sections),
		Narrative:      nonNilMap(r.Narrative),
		LineItems:      items,
		CoverImagePath: r.CoverImagePath,
		Photos:         slices.Clone(r.Photos),
		UpdatedAt:      r.UpdatedAt,
	}
}

func MapTemplateDomainToApi(t domain.Template) api.Template {
	return api.Template{
		ID:        t.ID,
		Name:      t.Name,
		FilePath:  t.SourcePath,
		Sections:  MapSectionsDomainToApi(t.Sections),
		CreatedAt: t.CreatedAt,
	}
}

func MapTotalsToApi(t totals.Totals) api.Totals {
	out := api.Totals{Categories: make([]api.CategoryTotal, 0, len(t.Categories)), Grand: t.Grand}
	for _, c := range t.Categories {
		out.Categories = append(out.Categories, api.CategoryTotal{Category: c.Category, Amount: c.Amount})
	}
	return out
}

func MapTemplateDomainToStore(t domain.Template) (store.Template, error) {
	sections, err := json.Marshal(MapSectionsDomainToApi(t.Sections))
	if err != nil {
		return store.Template{}, fmt.Errorf("marshal sections: %w", err)
	}
	return store.Template{
		ID:         t.ID,
		Name:       t.Name,
		SourcePath: t.SourcePath,
		Sections:   sections,
		CreatedAt:  t.CreatedAt,
	}, nil
}

func MapTemplateStoreToDomain(t store.Template) (domain.Template, error) {
	var sections []api.Section
	if len(t.Sections) > 0 {
		if err := json.Unmarshal(t.Sections, &sections); err != nil {
			return domain.Template{}, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	return domain.Template{
		ID:         t.ID,
		Name:       t.Name,
		SourcePath: t.SourcePath,
		Sections:   MapSectionsApiToDomain(sections),
		CreatedAt:  t.CreatedAt,
	}, nil
}

func MapReportDomainToStore(r domain.Report) (store.Report, error) {
	doc, err := json.Marshal(MapReportDomainToApi(r))
	if err != nil {
		return store.Report{}, fmt.Errorf("marshal report: %w", err)
	}
	return store.Report{
		ID:         r.ID,
		TemplateID: r.TemplateID,
		Name:       r.Name,
		Document:   doc,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func MapReportStoreToDomain(r store.Report) (domain.Report, error) {
	var doc api.Report
	if err := json.Unmarshal(r.Document, &doc); err != nil {
		return domain.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	out := MapReportApiToDomain(doc)
	out.ID = r.ID
	out.TemplateID = r.TemplateID
	out.UpdatedAt = r.UpdatedAt
	return out, nil
}

func nonNilMap(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return maps.Clone(in)
}
