// Package sections holds the fixed catalog of report sections and their canonical order.
package sections

import "github.com/de-tools/costseg/pkg/models/domain"

// Kind describes one section the renderer knows how to produce.
type Kind struct {
	Key            domain.SectionKey
	Label          string
	DefaultEnabled bool
	Toggleable     bool
}

var catalog = []Kind{
	{Key: domain.SectionCover, Label: "Cover Page", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionTOC, Label: "Table of Contents", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionSummary, Label: "Summary Letter", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionNarrative, Label: "Narrative Sections", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionExhibits, Label: "Exhibits", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionPhotos, Label: "Photographs", DefaultEnabled: true, Toggleable: true},
	{Key: domain.SectionDepreciation, Label: "Depreciation Tables", DefaultEnabled: true, Toggleable: true},
}

// Catalog returns the section kinds in canonical render order.
func Catalog() []Kind {
	out := make([]Kind, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(key domain.SectionKey) (Kind, bool) {
	for _, k := range catalog {
		if k.Key == key {
			return k, true
		}
	}
	return Kind{}, false
}

// IsToggleable reports whether users may switch the section on or off.
// Keys outside the catalog never are.
func IsToggleable(key domain.SectionKey) bool {
	k, ok := Lookup(key)
	return ok && k.Toggleable
}

// Defaults builds the section list a new template starts with.
func Defaults() []domain.Section {
	out := make([]domain.Section, 0, len(catalog))
	for _, k := range catalog {
		out = append(out, domain.Section{Key: k.Key, Label: k.Label, Enabled: k.DefaultEnabled})
	}
	return out
}

// Enabled re-orders stored sections by the catalog and keeps only the ones that are
// present and enabled. Unknown keys are dropped. A missing label falls back to the
// catalog label. When a key is stored twice the first entry wins.
func Enabled(stored []domain.Section) []domain.Section {
	byKey := make(map[domain.SectionKey]domain.Section, len(stored))
	for _, s := range stored {
		if _, seen := byKey[s.Key]; !seen {
			byKey[s.Key] = s
		}
	}

	out := make([]domain.Section, 0, len(catalog))
	for _, k := range catalog {
		s, ok := byKey[k.Key]
		if !ok || !s.Enabled {
			continue
		}
		if s.Label == "" {
			s.Label = k.Label
		}
		out = append(out, s)
	}
	return out
}

// IsEnabled reports whether key survives Enabled for the stored list.
func IsEnabled(stored []domain.Section, key domain.SectionKey) bool {
	for _, s := range Enabled(stored) {
		if s.Key == key {
			return true
		}
	}
	return false
}
