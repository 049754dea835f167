package domain

import (
	"errors"
	"maps"
	"slices"
	"time"
)

var ErrNotFound = errors.New("not found")

const (
	FieldOwner           = "owner"
	FieldAddress         = "address"
	FieldReportDate      = "reportDate"
	FieldSquareFootage   = "squareFootage"
	FieldLotSize         = "lotSize"
	FieldPlacedInService = "placedInService"
	FieldTotalCostBasis  = "totalCostBasis"
	FieldLandValue       = "landValue"
)

const (
	NarrativeSummary           = "summary"
	NarrativeMethodology       = "methodology"
	NarrativeCertifications    = "certifications"
	NarrativeTaxClassification = "taxClassification"
)

// FieldKeys lists the property fields a report understands, in form order.
var FieldKeys = []string{
	FieldOwner,
	FieldAddress,
	FieldReportDate,
	FieldSquareFootage,
	FieldLotSize,
	FieldPlacedInService,
	FieldTotalCostBasis,
	FieldLandValue,
}

var NarrativeKeys = []string{
	NarrativeSummary,
	NarrativeMethodology,
	NarrativeCertifications,
	NarrativeTaxClassification,
}

// Report is the central document being assembled. Fields and Narrative may hold
// keys outside FieldKeys/NarrativeKeys; those are kept but never rendered.
type Report struct {
	ID             string
	TemplateID     string
	Name           string
	Fields         map[string]string
	Sections       []Section
	Narrative      map[string]string
	LineItems      []LineItem
	CoverImagePath string
	Photos         []string
	UpdatedAt      time.Time
}

func (r *Report) Field(key string) string {
	return r.Fields[key]
}

func (r *Report) NarrativeText(key string) string {
	return r.Narrative[key]
}

// Clone returns a deep copy so callers can hand out snapshots without sharing maps or slices.
func (r *Report) Clone() Report {
	out := *r
	out.Fields = maps.Clone(r.Fields)
	out.Narrative = maps.Clone(r.Narrative)
	out.Sections = slices.Clone(r.Sections)
	out.LineItems = slices.Clone(r.LineItems)
	out.Photos = slices.Clone(r.Photos)
	return out
}

// Replace overwrites every user-editable attribute with the ones from next.
// Identity (ID, TemplateID) and the uploaded cover reference are kept.
func (r *Report) Replace(next Report, now time.Time) {
	snapshot := next.Clone()
	r.Name = snapshot.Name
	r.Fields = snapshot.Fields
	r.Sections = snapshot.Sections
	r.Narrative = snapshot.Narrative
	r.LineItems = snapshot.LineItems
	r.Photos = snapshot.Photos
	r.UpdatedAt = now
}

func (r *Report) SetField(key, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[key] = value
}

func (r *Report) SetNarrative(key, text string) {
	if r.Narrative == nil {
		r.Narrative = make(map[string]string)
	}
	r.Narrative[key] = text
}

// SetSectionEnabled flips the enabled flag of a stored section. It reports false
// when the report does not carry a section with that key.
func (r *Report) SetSectionEnabled(key SectionKey, enabled bool) bool {
	for i := range r.Sections {
		if r.Sections[i].Key == key {
			r.Sections[i].Enabled = enabled
			return true
		}
	}
	return false
}

func (r *Report) AddLineItem(id string) LineItem {
	item := NewLineItem(id)
	r.LineItems = append(r.LineItems, item)
	return item
}

func (r *Report) UpdateLineItem(id string, update LineItemUpdate) (LineItem, error) {
	for i := range r.LineItems {
		if r.LineItems[i].ID == id {
			update.apply(&r.LineItems[i])
			return r.LineItems[i], nil
		}
	}
	return LineItem{}, ErrLineItemNotFound
}

func (r *Report) RemoveLineItem(id string) error {
	idx := slices.IndexFunc(r.LineItems, func(item LineItem) bool { return item.ID == id })
	if idx < 0 {
		return ErrLineItemNotFound
	}
	r.LineItems = slices.Delete(r.LineItems, idx, idx+1)
	return nil
}
