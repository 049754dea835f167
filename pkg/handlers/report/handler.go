package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/de-tools/costseg/pkg/adapters"
	"github.com/de-tools/costseg/pkg/models/api"
	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/render/pdf"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const DefaultMaxUploadBytes = 25 << 20

type Handler struct {
	svc            report.Service
	maxUploadBytes int64
}

func NewHandler(svc report.Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Template, 0, len(templates))
	for _, tpl := range templates {
		response = append(response, adapters.MapTemplateDomainToApi(tpl))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.formFile(w, r, "template")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = filename
	}

	tpl, err := h.svc.CreateTemplate(r.Context(), name, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapTemplateDomainToApi(tpl))
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	created, err := h.svc.CreateReport(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapReportDomainToApi(created))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.ListReports(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Report, 0, len(reports))
	for _, rep := range reports {
		response = append(response, adapters.MapReportDomainToApi(rep))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) ReplaceReport(w http.ResponseWriter, r *http.Request) {
	var body api.Report
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := h.svc.ReplaceReport(r.Context(), chi.URLParam(r, "id"), adapters.MapReportApiToDomain(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	var body api.FieldUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := h.svc.SetField(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"), body.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) SetNarrative(w http.ResponseWriter, r *http.Request) {
	var body api.NarrativeUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := h.svc.SetNarrative(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"), body.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	var body api.SectionToggle
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	key := domain.SectionKey(chi.URLParam(r, "key"))
	rep, err := h.svc.ToggleSection(r.Context(), chi.URLParam(r, "id"), key, body.Enabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.AddLineItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapLineItemDomainToApi(item))
}

func (h *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	var body api.LineItemPatch
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.svc.UpdateLineItem(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "itemId"),
		adapters.MapLineItemPatchToDomain(body),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapLineItemDomainToApi(item))
}

func (h *Handler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveLineItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	tot, err := h.svc.Totals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapTotalsToApi(tot))
}

func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.formFile(w, r, "cover")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	ref, err := h.svc.UploadCover(r.Context(), chi.URLParam(r, "id"), filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.CoverResponse{CoverImagePath: ref})
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out, err := h.svc.ExportPDF(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, r, "application/pdf", fmt.Sprintf("report-%s.pdf", id), out)
}

func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out, err := h.svc.ExportJSON(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, r, "application/json", fmt.Sprintf("report-%s.json", id), out)
}

func (h *Handler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	file, _, err := h.formFile(w, r, "report")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: read upload: %v", report.ErrInvalidInput, err))
		return
	}

	rep, err := h.svc.ImportJSON(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: upload exceeds %d bytes", report.ErrInvalidInput, h.maxUploadBytes)
		}
		return nil, "", fmt.Errorf("%w: %v", report.ErrInvalidInput, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing %q file: %v", report.ErrInvalidInput, field, err)
	}
	return file, header.Filename, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", report.ErrInvalidInput, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLineItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, pdf.ErrRender) {
		message = http.StatusText(status)
	}
	writeJSON(w, r, status, api.Error{Error: message})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to write attachment")
	}
}
