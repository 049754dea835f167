package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/de-tools/costseg/pkg/models/api"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/store/assets"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReport(t *testing.T, f *fixture) domain.Report {
	t.Helper()
	tpl, err := f.svc.CreateTemplate(f.ctx, "Letterhead", bytes.NewReader(templatePDF(t)))
	require.NoError(t, err)
	r, err := f.svc.CreateReport(f.ctx, tpl.ID, "")
	require.NoError(t, err)
	return r
}

func TestCreateTemplate(t *testing.T) {
	f := setupFixture(t)

	tpl, err := f.svc.CreateTemplate(f.ctx, "  Letterhead ", bytes.NewReader(templatePDF(t)))
	require.NoError(t, err)

	assert.Equal(t, "id-001", tpl.ID)
	assert.Equal(t, "Letterhead", tpl.Name)
	assert.Equal(t, "templates/id-001.pdf", tpl.SourcePath)
	require.Len(t, tpl.Sections, 7)
	for _, s := range tpl.Sections {
		assert.True(t, s.Enabled, s.Key)
	}

	exists, err := afero.Exists(f.fs, tpl.SourcePath)
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := f.svc.ListTemplates(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, tpl.Sections, all[0].Sections)
}

func TestCreateTemplate_DefaultName(t *testing.T) {
	f := setupFixture(t)

	tpl, err := f.svc.CreateTemplate(f.ctx, "", bytes.NewReader(templatePDF(t)))
	require.NoError(t, err)
	assert.Equal(t, defaultTemplateName, tpl.Name)
}

func TestCreateTemplate_EmptyUpload(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.CreateTemplate(f.ctx, "Empty", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateReport_Defaults(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)

	assert.Equal(t, "New Report 2025-06-13", r.Name)
	assert.Equal(t, "id-001", r.TemplateID)
	assert.Equal(t, "2025-06-13", r.Field(domain.FieldReportDate))
	assert.Equal(t, "", r.Field(domain.FieldOwner))
	assert.Len(t, r.Fields, len(domain.FieldKeys))
	assert.Equal(t, "We are pleased to provide this cost segregation summary letter.", r.NarrativeText(domain.NarrativeSummary))
	assert.Len(t, r.Sections, 7)

	require.Len(t, r.LineItems, 4)
	ids := map[string]bool{}
	for _, item := range r.LineItems {
		assert.NotEmpty(t, item.ID)
		ids[item.ID] = true
		assert.False(t, item.TotalOverride.IsSet())
	}
	assert.Len(t, ids, 4)
	assert.Equal(t, "Carpeting", r.LineItems[0].Description)
	assert.Equal(t, "Building Shell", r.LineItems[3].Description)

	stored, err := f.svc.GetReport(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, stored.Name)
	assert.Equal(t, r.LineItems, stored.LineItems)
	assert.Equal(t, fixedNow.Unix(), stored.UpdatedAt.Unix())

	tot, err := f.svc.Totals(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 365100.0, tot.Grand)
	five, ok := tot.Category("5-year")
	require.True(t, ok)
	assert.Equal(t, 22100.0, five)
}

func TestCreateReport_UnknownTemplate(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.CreateReport(f.ctx, "missing", "Study")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNamedOperations(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)

	t.Run("set field", func(t *testing.T) {
		got, err := f.svc.SetField(f.ctx, r.ID, domain.FieldOwner, "Acme Holdings")
		require.NoError(t, err)
		assert.Equal(t, "Acme Holdings", got.Field(domain.FieldOwner))

		stored, err := f.svc.GetReport(f.ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Holdings", stored.Field(domain.FieldOwner))
	})

	t.Run("unknown field keys are kept", func(t *testing.T) {
		_, err := f.svc.SetField(f.ctx, r.ID, "parcelNumber", "12-345")
		require.NoError(t, err)

		stored, err := f.svc.GetReport(f.ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "12-345", stored.Field("parcelNumber"))
	})

	t.Run("set narrative", func(t *testing.T) {
		got, err := f.svc.SetNarrative(f.ctx, r.ID, domain.NarrativeMethodology, "Engineering-based approach.")
		require.NoError(t, err)
		assert.Equal(t, "Engineering-based approach.", got.NarrativeText(domain.NarrativeMethodology))
	})

	t.Run("toggle section", func(t *testing.T) {
		got, err := f.svc.ToggleSection(f.ctx, r.ID, domain.SectionPhotos, false)
		require.NoError(t, err)
		for _, s := range got.Sections {
			if s.Key == domain.SectionPhotos {
				assert.False(t, s.Enabled)
			}
		}
	})

	t.Run("toggle unknown section", func(t *testing.T) {
		_, err := f.svc.ToggleSection(f.ctx, r.ID, domain.SectionKey("appendix"), true)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("line items", func(t *testing.T) {
		added, err := f.svc.AddLineItem(f.ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "5-year", added.Category)
		assert.Equal(t, "New Item", added.Description)
		assert.Equal(t, 1.0, added.Qty)
		assert.Equal(t, 0.0, added.UnitCost)

		override := domain.OverrideOf(750)
		updated, err := f.svc.UpdateLineItem(f.ctx, r.ID, added.ID, domain.LineItemUpdate{TotalOverride: &override})
		require.NoError(t, err)
		assert.Equal(t, 750.0, updated.EffectiveTotal())

		tot, err := f.svc.Totals(f.ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 365850.0, tot.Grand)

		require.NoError(t, f.svc.RemoveLineItem(f.ctx, r.ID, added.ID))
		err = f.svc.RemoveLineItem(f.ctx, r.ID, added.ID)
		assert.ErrorIs(t, err, domain.ErrLineItemNotFound)

		_, err = f.svc.UpdateLineItem(f.ctx, r.ID, "nope", domain.LineItemUpdate{})
		assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := f.svc.SetField(f.ctx, "ghost", domain.FieldOwner, "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.svc.AddLineItem(f.ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReplaceReport_KeepsIdentityAndCover(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)

	ref, err := f.svc.UploadCover(f.ctx, r.ID, "front.PNG", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	next := r.Clone()
	next.ID = "other"
	next.TemplateID = "other-template"
	next.CoverImagePath = ""
	next.Name = "Renamed"
	next.LineItems = next.LineItems[:1]

	got, err := f.svc.ReplaceReport(f.ctx, r.ID, next)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.TemplateID, got.TemplateID)
	assert.Equal(t, ref, got.CoverImagePath)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, got.LineItems, 1)

	all, err := f.svc.ListReports(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Renamed", all[0].Name)
}

func TestUploadCover(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)

	ref, err := f.svc.UploadCover(f.ctx, r.ID, "front.PNG", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "covers/"+r.ID+"-cover.png", ref)

	ref, err = f.svc.UploadCover(f.ctx, r.ID, "blob", bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)
	assert.Equal(t, "covers/"+r.ID+"-cover.jpg", ref)

	stored, err := f.svc.GetReport(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, ref, stored.CoverImagePath)

	_, err = f.svc.UploadCover(f.ctx, "ghost", "x.png", bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportPDF_AllSections(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)
	_, err := f.svc.SetField(f.ctx, r.ID, domain.FieldOwner, "Acme Holdings")
	require.NoError(t, err)
	_, err = f.svc.UploadCover(f.ctx, r.ID, "front.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	out, err := f.svc.ExportPDF(f.ctx, r.ID)
	require.NoError(t, err)

	doc := string(out)
	assert.Equal(t, 7, pageCount(out))
	assert.Contains(t, doc, "/Subtype /Form")
	assert.Contains(t, doc, "/Subtype /Image")
	assert.Contains(t, doc, "(Acme Holdings) Tj")
	assert.Contains(t, doc, "($365,100) Tj")
	count, err := testutil.GatherAndCount(f.metrics.Registry(), "costseg_exports_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExportPDF_DisabledSections(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)

	next := r.Clone()
	next.Sections = []domain.Section{
		{Key: domain.SectionCover, Label: "Cover Page", Enabled: true},
		{Key: domain.SectionTOC, Label: "Table of Contents", Enabled: true},
		{Key: domain.SectionSummary, Label: "Summary Letter", Enabled: false},
		{Key: domain.SectionDepreciation, Label: "Depreciation Tables", Enabled: true},
	}
	_, err := f.svc.ReplaceReport(f.ctx, r.ID, next)
	require.NoError(t, err)

	out, err := f.svc.ExportPDF(f.ctx, r.ID)
	require.NoError(t, err)

	doc := string(out)
	assert.Equal(t, 3, pageCount(out))
	assert.Contains(t, doc, "(Depreciation Tables) Tj")
	assert.NotContains(t, doc, "(Summary Letter) Tj")
}

func TestExportPDF_MissingCoverImage(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)
	_, err := f.svc.SetField(f.ctx, r.ID, domain.FieldOwner, "Acme Holdings")
	require.NoError(t, err)
	_, err = f.svc.SetField(f.ctx, r.ID, domain.FieldAddress, "1 Main St")
	require.NoError(t, err)
	ref, err := f.svc.UploadCover(f.ctx, r.ID, "front.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	require.NoError(t, f.fs.Remove(ref))

	out, err := f.svc.ExportPDF(f.ctx, r.ID)
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "(Acme Holdings) Tj")
	assert.Contains(t, doc, "(1 Main St) Tj")
	assert.NotContains(t, doc, "/Subtype /Image")
	count, err := testutil.GatherAndCount(f.metrics.Registry(), "costseg_export_recovered_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExportPDF_MissingTemplateSource(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)
	require.NoError(t, f.fs.Remove(assets.TemplateName(r.TemplateID)))

	out, err := f.svc.ExportPDF(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, pageCount(out))
	assert.NotContains(t, string(out), "/Subtype /Form")
}

func TestExportPDF_CoverDisabledSkipsTemplate(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)
	_, err := f.svc.ToggleSection(f.ctx, r.ID, domain.SectionCover, false)
	require.NoError(t, err)

	out, err := f.svc.ExportPDF(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, pageCount(out))
	assert.NotContains(t, string(out), "/Subtype /Form")
}

func TestExportPDF_MissingReport(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.ExportPDF(f.ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportImportJSON_RoundTrip(t *testing.T) {
	f := setupFixture(t)
	r := createReport(t, f)
	_, err := f.svc.SetField(f.ctx, r.ID, domain.FieldOwner, "Acme Holdings")
	require.NoError(t, err)
	override := domain.OverrideOf(5000)
	_, err = f.svc.UpdateLineItem(f.ctx, r.ID, r.LineItems[3].ID, domain.LineItemUpdate{TotalOverride: &override})
	require.NoError(t, err)
	_, err = f.svc.ToggleSection(f.ctx, r.ID, domain.SectionExhibits, false)
	require.NoError(t, err)

	original, err := f.svc.GetReport(f.ctx, r.ID)
	require.NoError(t, err)

	data, err := f.svc.ExportJSON(f.ctx, r.ID)
	require.NoError(t, err)

	var doc api.Report
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, r.ID, doc.ID)

	imported, err := f.svc.ImportJSON(f.ctx, data)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, imported.ID)
	assert.Equal(t, original.Name, imported.Name)
	assert.Equal(t, original.TemplateID, imported.TemplateID)
	assert.Equal(t, original.Fields, imported.Fields)
	assert.Equal(t, original.Narrative, imported.Narrative)
	assert.Equal(t, original.Sections, imported.Sections)
	require.Len(t, imported.LineItems, len(original.LineItems))
	for i := range original.LineItems {
		assert.NotEqual(t, original.LineItems[i].ID, imported.LineItems[i].ID)
		want := original.LineItems[i]
		want.ID = imported.LineItems[i].ID
		assert.Equal(t, want, imported.LineItems[i])
	}

	stored, err := f.svc.GetReport(f.ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, imported.LineItems, stored.LineItems)

	all, err := f.svc.ListReports(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportJSON_Malformed(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.ImportJSON(f.ctx, []byte(`{"lineItems":[{"qty":"lots"}]}`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ImportJSON(f.ctx, []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
