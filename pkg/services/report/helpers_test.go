package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/costseg/pkg/metrics"
	"github.com/de-tools/costseg/pkg/render/pdf"
	"github.com/de-tools/costseg/pkg/store/assets"
	"github.com/de-tools/costseg/pkg/store/duckdb"
	reportstore "github.com/de-tools/costseg/pkg/store/duckdb/report"
	templatestore "github.com/de-tools/costseg/pkg/store/duckdb/template"
	"github.com/go-pdf/fpdf"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 13, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	fs      afero.Fs
	metrics *metrics.Metrics
	svc     *DefaultService
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	templates, err := templatestore.NewStore(db)
	require.NoError(t, err)
	reports, err := reportstore.NewStore(db)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	m := metrics.New()

	renderOpts := pdf.DefaultOptions()
	renderOpts.Compress = false

	svc := NewService(templates, reports, assets.NewFSStore(fs),
		WithMetrics(m),
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(sequentialIDs()),
		WithRenderOptions(renderOpts),
		WithTransactions(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return duckdb.InTransaction(ctx, db, fn)
		}),
	)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return &fixture{
		ctx:     logger.WithContext(context.Background()),
		fs:      fs,
		metrics: m,
		svc:     svc,
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func templatePDF(t *testing.T) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(40, 40, "Firm Letterhead")
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for x := 0; x < 100; x++ {
		for y := 0; y < 50; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pageCount(out []byte) int {
	return strings.Count(string(out), "<</Type /Page\n")
}
