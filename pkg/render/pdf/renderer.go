// Package pdf turns a document.Plan into PDF bytes using fpdf. The first page of a
// template source document is imported with gofpdi when the plan asks for it.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/costseg/pkg/document"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"github.com/rs/zerolog"
)

const (
	fontFamily  = "Helvetica"
	lineSpacing = 1.2
	mediaBox    = "/MediaBox"
)

type Options struct {
	Title   string
	Author  string
	Creator string
	// CreatedAt is written as the document creation date. Zero means now.
	CreatedAt time.Time
	// Compress deflates page content streams.
	Compress bool
}

func DefaultOptions() Options {
	return Options{
		Creator:  "costseg",
		Compress: true,
	}
}

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render draws every page of plan in order. source holds the template document
// whose first page backs a document.SourcePage; when it is empty or unreadable a
// blank page is used instead. Any other failure is returned as a *RenderError and
// no bytes are produced.
func (r *Renderer) Render(ctx context.Context, plan document.Plan, source []byte) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	size := plan.PageSize
	if size.Width == 0 || size.Height == 0 {
		size = document.Letter
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(r.opts.Compress)
	doc.SetCatalogSort(true)
	doc.SetCreator(r.opts.Creator, true)
	if r.opts.Title != "" {
		doc.SetTitle(r.opts.Title, true)
	}
	if r.opts.Author != "" {
		doc.SetAuthor(r.opts.Author, true)
	}
	created := r.opts.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	doc.SetCreationDate(created)
	doc.SetModificationDate(created)

	d := &drawer{
		doc:       doc,
		assets:    plan.Assets,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
		logger:    logger,
	}

	for i, page := range plan.Pages {
		switch page.Base {
		case document.SourcePage:
			if err := importFirstPage(doc, source); err != nil {
				logger.Warn().Err(err).Msg("template page unavailable, using blank cover")
				doc.AddPage()
			}
		default:
			doc.AddPage()
		}

		if err := d.drawPage(page); err != nil {
			return nil, &RenderError{Stage: fmt.Sprintf("page %d", i+1), Err: err}
		}
		if doc.Err() {
			return nil, &RenderError{Stage: fmt.Sprintf("page %d", i+1), Err: doc.Error()}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Stage: "serialize", Err: err}
	}
	return buf.Bytes(), nil
}

// importFirstPage adds a page sized like the source's first page and paints the
// imported page onto it. gofpdi reports parse failures by panicking.
func importFirstPage(doc *fpdf.Fpdf, source []byte) (err error) {
	if len(source) == 0 {
		return errMissingSource
	}
	if !bytes.HasPrefix(source, []byte("%PDF-")) {
		return fmt.Errorf("%w: not a PDF document", errMissingSource)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", errMissingSource, rec)
		}
	}()

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(source))
	tpl := importer.ImportPageFromStream(doc, &rs, 1, mediaBox)

	w, h := doc.GetPageSize()
	if sizes, ok := importer.GetPageSizes()[1]; ok {
		if box, ok := sizes[mediaBox]; ok && box["w"] > 0 && box["h"] > 0 {
			w, h = box["w"], box["h"]
		}
	}

	doc.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	importer.UseImportedTemplate(doc, tpl, 0, 0, w, h)
	return nil
}

type drawer struct {
	doc       *fpdf.Fpdf
	assets    map[string][]byte
	translate func(string) string
	logger    *zerolog.Logger
	images    map[string]bool
}

func (d *drawer) drawPage(page document.Page) error {
	for _, op := range page.Ops {
		switch op := op.(type) {
		case document.Text:
			d.drawText(op)
		case document.Image:
			if err := d.drawImage(op); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported draw op %T", op)
		}
	}
	return nil
}

func (d *drawer) drawText(t document.Text) {
	style := ""
	if t.Weight == document.Bold {
		style = "B"
	}
	d.doc.SetFont(fontFamily, style, t.Size)

	lines := wrap(d.doc, t)
	lineHeight := t.Size * lineSpacing
	for i, line := range lines {
		d.doc.Text(t.X, t.Y+float64(i)*lineHeight, d.translate(line))
	}
}

// wrap splits content on explicit newlines and, with a MaxWidth, on word
// boundaries using the current font metrics.
func wrap(doc *fpdf.Fpdf, t document.Text) []string {
	var lines []string
	for _, paragraph := range strings.Split(t.Content, "\n") {
		if t.MaxWidth <= 0 || paragraph == "" {
			lines = append(lines, paragraph)
			continue
		}
		lines = append(lines, doc.SplitText(paragraph, t.MaxWidth)...)
	}
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = lines[:t.MaxLines]
	}
	return lines
}

func (d *drawer) drawImage(img document.Image) error {
	data, ok := d.assets[img.Ref]
	if !ok || len(data) == 0 {
		d.logger.Warn().Str("ref", img.Ref).Msg("image asset missing from plan, skipping")
		return nil
	}

	if d.images == nil {
		d.images = make(map[string]bool)
	}
	opts := fpdf.ImageOptions{ImageType: ImageType(img.Ref)}
	if !d.images[img.Ref] {
		d.doc.RegisterImageOptionsReader(img.Ref, opts, bytes.NewReader(data))
		if d.doc.Err() {
			return fmt.Errorf("embed image %s: %w", img.Ref, d.doc.Error())
		}
		d.images[img.Ref] = true
	}

	x := img.X
	if img.Anchor == document.TopRight {
		pageWidth, _ := d.doc.GetPageSize()
		x = pageWidth - img.X - img.Width
	}
	d.doc.ImageOptions(img.Ref, x, img.Y, img.Width, img.Height, false, opts, 0, "")
	return nil
}

// ImageType picks the embed format from the file extension. Anything that is not
// a known alternate is embedded as JPEG.
func ImageType(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png":
		return "PNG"
	case ".gif":
		return "GIF"
	default:
		return "JPG"
	}
}
