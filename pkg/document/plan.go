// Package document describes a paginated report as plain draw instructions.
// Coordinates are points with the origin at the top-left corner of the page;
// text Y is the baseline.
package document

import "github.com/de-tools/costseg/pkg/models/domain"

type Size struct {
	Width  float64
	Height float64
}

// Letter is US Letter, 8.5 x 11 inches.
var Letter = Size{Width: 612, Height: 792}

type Weight int

const (
	Regular Weight = iota
	Bold
)

// Anchor tells which page corner an image offset is measured from.
type Anchor int

const (
	TopLeft Anchor = iota
	// TopRight measures X from the right page edge to the image's right edge.
	TopRight
)

// Base selects what a page starts from before its ops are drawn.
type Base int

const (
	BlankPage Base = iota
	// SourcePage is the first page of the template's source document.
	SourcePage
)

type Op interface {
	isOp()
}

// Text is left-anchored at X. When MaxWidth is set the content wraps at that
// width; MaxLines > 0 truncates the wrapped result.
type Text struct {
	X        float64
	Y        float64
	Size     float64
	Weight   Weight
	Content  string
	MaxWidth float64
	MaxLines int
}

// Image places the asset registered under Ref in the plan.
type Image struct {
	Ref    string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Anchor Anchor
}

func (Text) isOp()  {}
func (Image) isOp() {}

type Page struct {
	Section domain.SectionKey
	Base    Base
	Ops     []Op
}

func (p *Page) Add(ops ...Op) {
	p.Ops = append(p.Ops, ops...)
}

// Plan is the ordered page list plus the raw bytes of every image it references.
type Plan struct {
	PageSize Size
	Pages    []Page
	Assets   map[string][]byte
}

func (p Plan) PageCount() int {
	return len(p.Pages)
}

// FirstPage returns the 1-based page number where section starts, or 0.
func (p Plan) FirstPage(section domain.SectionKey) int {
	for i, page := range p.Pages {
		if page.Section == section {
			return i + 1
		}
	}
	return 0
}

// Texts returns the text content of a page in draw order.
func (p Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if t, ok := op.(Text); ok {
			out = append(out, t.Content)
		}
	}
	return out
}

func (p Page) Images() []Image {
	var out []Image
	for _, op := range p.Ops {
		if img, ok := op.(Image); ok {
			out = append(out, img)
		}
	}
	return out
}
