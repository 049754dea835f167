package domain

import "time"

// Template is an uploaded source document plus the section list new reports start from.
type Template struct {
	ID         string
	Name       string
	SourcePath string
	Sections   []Section
	CreatedAt  time.Time
}

type SectionKey string

const (
	SectionCover        SectionKey = "cover"
	SectionTOC          SectionKey = "toc"
	SectionSummary      SectionKey = "summary"
	SectionNarrative    SectionKey = "narrative"
	SectionExhibits     SectionKey = "exhibits"
	SectionPhotos       SectionKey = "photos"
	SectionDepreciation SectionKey = "depreciation"
)

type Section struct {
	Key     SectionKey
	Label   string
	Enabled bool
}
