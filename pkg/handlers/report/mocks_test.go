package report

import (
	"context"
	"io"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/totals"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateTemplate(ctx context.Context, name string, source io.Reader) (domain.Template, error) {
	data, _ := io.ReadAll(source)
	args := m.Called(ctx, name, string(data))
	return args.Get(0).(domain.Template), args.Error(1)
}

func (m *mockService) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Template), args.Error(1)
}

func (m *mockService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *mockService) CreateReport(ctx context.Context, templateID, name string) (domain.Report, error) {
	args := m.Called(ctx, templateID, name)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) GetReport(ctx context.Context, id string) (domain.Report, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) ListReports(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *mockService) ReplaceReport(ctx context.Context, id string, next domain.Report) (domain.Report, error) {
	args := m.Called(ctx, id, next)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) SetField(ctx context.Context, id, key, value string) (domain.Report, error) {
	args := m.Called(ctx, id, key, value)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) SetNarrative(ctx context.Context, id, key, text string) (domain.Report, error) {
	args := m.Called(ctx, id, key, text)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) ToggleSection(ctx context.Context, id string, key domain.SectionKey, enabled bool) (domain.Report, error) {
	args := m.Called(ctx, id, key, enabled)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) AddLineItem(ctx context.Context, id string) (domain.LineItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.LineItem), args.Error(1)
}

func (m *mockService) UpdateLineItem(ctx context.Context, id, itemID string, update domain.LineItemUpdate) (domain.LineItem, error) {
	args := m.Called(ctx, id, itemID, update)
	return args.Get(0).(domain.LineItem), args.Error(1)
}

func (m *mockService) RemoveLineItem(ctx context.Context, id, itemID string) error {
	return m.Called(ctx, id, itemID).Error(0)
}

func (m *mockService) Totals(ctx context.Context, id string) (totals.Totals, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(totals.Totals), args.Error(1)
}

func (m *mockService) UploadCover(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, id, filename, string(data))
	return args.String(0), args.Error(1)
}

func (m *mockService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockService) ExportJSON(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockService) ImportJSON(ctx context.Context, data []byte) (domain.Report, error) {
	args := m.Called(ctx, string(data))
	return args.Get(0).(domain.Report), args.Error(1)
}
