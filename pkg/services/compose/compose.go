// Package compose lays out a report as a document.Plan. It is a pure function of
// its input: no I/O, no shared state.
package compose

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/de-tools/costseg/pkg/document"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/sections"
	"github.com/de-tools/costseg/pkg/services/totals"
)

const (
	coverImageScale = 0.4

	marginLeft   = 60.0
	titleX       = 50.0
	titleY       = 32.0
	titleSize    = 20.0
	bodyTop      = 82.0
	bodySize     = 12.0
	contentWidth = 480.0
	rowSize      = 11.0

	tocRowStep     = 20.0
	tocPageX       = 500.0
	narrativeBand  = 80.0
	factsRowStep   = 20.0
	factsValueX    = 250.0
	ledgerRowStep  = 18.0
	ledgerDescX    = 160.0
	ledgerQtyX     = 360.0
	ledgerTotalX   = 430.0
	ledgerDescWide = 180.0
)

const photosPlaceholder = "Property photographs will be placed here."

// Asset is an already-resolved image reference.
type Asset struct {
	Ref  string
	Data []byte
}

type Input struct {
	Report domain.Report
	Totals totals.Totals
	// CoverImage is nil when the report has no cover or it could not be read.
	CoverImage *Asset
	PageSize   document.Size
}

type layoutFunc func(in Input, kind sections.Kind) document.Page

var layouts = map[domain.SectionKey]layoutFunc{
	domain.SectionSummary:      summaryPage,
	domain.SectionNarrative:    narrativePage,
	domain.SectionExhibits:     exhibitsPage,
	domain.SectionPhotos:       photosPage,
	domain.SectionDepreciation: depreciationPage,
}

// Compose walks the enabled sections in canonical order and returns one page per
// section. Table of contents page numbers are filled in after every other page
// has been placed, so they always match the final layout.
func Compose(in Input) document.Plan {
	size := in.PageSize
	if size.Width == 0 || size.Height == 0 {
		size = document.Letter
	}
	in.PageSize = size

	plan := document.Plan{
		PageSize: size,
		Pages:    []document.Page{},
		Assets:   map[string][]byte{},
	}

	enabled := sections.Enabled(in.Report.Sections)
	tocIndex := -1

	for _, s := range enabled {
		kind, _ := sections.Lookup(s.Key)

		switch s.Key {
		case domain.SectionCover:
			page, asset := coverPage(in)
			if asset != nil {
				plan.Assets[asset.Ref] = asset.Data
			}
			plan.Pages = append(plan.Pages, page)
		case domain.SectionTOC:
			tocIndex = len(plan.Pages)
			plan.Pages = append(plan.Pages, sectionPage(s.Key, kind.Label))
		default:
			layout, ok := layouts[s.Key]
			if !ok {
				continue
			}
			plan.Pages = append(plan.Pages, layout(in, kind))
		}
	}

	if tocIndex >= 0 {
		fillTableOfContents(&plan.Pages[tocIndex], plan, enabled)
	}

	return plan
}

func sectionPage(key domain.SectionKey, title string) document.Page {
	page := document.Page{Section: key, Base: document.BlankPage}
	page.Add(document.Text{X: titleX, Y: titleY, Size: titleSize, Weight: document.Bold, Content: title})
	return page
}

func coverPage(in Input) (document.Page, *Asset) {
	page := document.Page{Section: domain.SectionCover, Base: document.SourcePage}

	owner := in.Report.Field(domain.FieldOwner)
	if owner == "" {
		owner = "Owner"
	}
	address := in.Report.Field(domain.FieldAddress)
	if address == "" {
		address = "Property Address"
	}

	page.Add(
		document.Text{X: marginLeft, Y: 140, Size: 22, Weight: document.Bold, Content: owner},
		document.Text{X: marginLeft, Y: 170, Size: 14, Weight: document.Regular, Content: address},
	)

	if in.CoverImage == nil || len(in.CoverImage.Data) == 0 {
		return page, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.CoverImage.Data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return page, nil
	}

	page.Add(document.Image{
		Ref:    in.CoverImage.Ref,
		X:      marginLeft,
		Y:      120,
		Width:  float64(cfg.Width) * coverImageScale,
		Height: float64(cfg.Height) * coverImageScale,
		Anchor: document.TopRight,
	})
	return page, in.CoverImage
}

func fillTableOfContents(page *document.Page, plan document.Plan, enabled []domain.Section) {
	y := bodyTop
	for _, s := range enabled {
		if s.Key == domain.SectionTOC || s.Key == domain.SectionCover {
			continue
		}
		number := plan.FirstPage(s.Key)
		if number == 0 {
			continue
		}
		page.Add(
			document.Text{X: marginLeft, Y: y, Size: bodySize, Content: s.Label},
			document.Text{X: tocPageX, Y: y, Size: bodySize, Content: strconv.Itoa(number)},
		)
		y += tocRowStep
	}
}

func summaryPage(in Input, kind sections.Kind) document.Page {
	page := sectionPage(kind.Key, kind.Label)
	page.Add(document.Text{
		X:        marginLeft,
		Y:        bodyTop,
		Size:     bodySize,
		Content:  in.Report.NarrativeText(domain.NarrativeSummary),
		MaxWidth: contentWidth,
	})
	return page
}

// narrativePage stacks the narrative blocks in fixed bands. A block longer than
// its band overlaps the next one.
func narrativePage(in Input, kind sections.Kind) document.Page {
	page := sectionPage(kind.Key, kind.Label)
	y := bodyTop
	for _, key := range []string{
		domain.NarrativeMethodology,
		domain.NarrativeCertifications,
		domain.NarrativeTaxClassification,
	} {
		page.Add(document.Text{
			X:        marginLeft,
			Y:        y,
			Size:     bodySize,
			Content:  in.Report.NarrativeText(key),
			MaxWidth: contentWidth,
		})
		y += narrativeBand
	}
	return page
}

var propertyFacts = []struct {
	label string
	field string
}{
	{"Square Footage", domain.FieldSquareFootage},
	{"Lot Size", domain.FieldLotSize},
	{"Placed in Service", domain.FieldPlacedInService},
	{"Total Cost Basis", domain.FieldTotalCostBasis},
	{"Land Value", domain.FieldLandValue},
}

func exhibitsPage(in Input, kind sections.Kind) document.Page {
	page := sectionPage(kind.Key, kind.Label)
	page.Add(document.Text{X: marginLeft, Y: 72, Size: 14, Weight: document.Bold, Content: "Property Facts"})

	y := 102.0
	for _, fact := range propertyFacts {
		value := in.Report.Field(fact.field)
		if value == "" {
			value = "-"
		}
		page.Add(
			document.Text{X: marginLeft, Y: y, Size: bodySize, Content: fact.label},
			document.Text{X: factsValueX, Y: y, Size: bodySize, Content: value},
		)
		y += factsRowStep
	}
	return page
}

func photosPage(_ Input, kind sections.Kind) document.Page {
	page := sectionPage(kind.Key, kind.Label)
	page.Add(document.Text{X: marginLeft, Y: bodyTop, Size: bodySize, Content: photosPlaceholder})
	return page
}

func depreciationPage(in Input, kind sections.Kind) document.Page {
	page := sectionPage(kind.Key, kind.Label)

	y := bodyTop
	for _, h := range []struct {
		x     float64
		label string
	}{
		{marginLeft, "Category"},
		{ledgerDescX, "Description"},
		{ledgerQtyX, "Qty"},
		{ledgerTotalX, "Total"},
	} {
		page.Add(document.Text{X: h.x, Y: y, Size: bodySize, Weight: document.Bold, Content: h.label})
	}
	y += 20

	for _, item := range in.Report.LineItems {
		page.Add(
			document.Text{X: marginLeft, Y: y, Size: rowSize, Content: item.Category},
			document.Text{X: ledgerDescX, Y: y, Size: rowSize, Content: item.Description, MaxWidth: ledgerDescWide, MaxLines: 1},
			document.Text{X: ledgerQtyX, Y: y, Size: rowSize, Content: formatQty(item.Qty)},
			document.Text{X: ledgerTotalX, Y: y, Size: rowSize, Content: FormatCurrency(item.EffectiveTotal())},
		)
		y += ledgerRowStep
	}

	if len(in.Totals.Categories) == 0 {
		return page
	}

	y += ledgerRowStep
	for _, c := range in.Totals.Categories {
		page.Add(
			document.Text{X: marginLeft, Y: y, Size: rowSize, Content: c.Category + " subtotal"},
			document.Text{X: ledgerTotalX, Y: y, Size: rowSize, Content: FormatCurrency(c.Amount)},
		)
		y += ledgerRowStep
	}
	page.Add(
		document.Text{X: marginLeft, Y: y, Size: bodySize, Weight: document.Bold, Content: "Grand Total"},
		document.Text{X: ledgerTotalX, Y: y, Size: bodySize, Weight: document.Bold, Content: FormatCurrency(in.Totals.Grand)},
	)
	return page
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}
