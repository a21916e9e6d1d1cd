package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinsalud/registro-clinico/internal/domain/export"
	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/internal/metrics"
)

// ExportHandler provides HTTP handlers for export generation and download
type ExportHandler struct {
	svc    *export.Service
	sheet  *record.Sheet
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc *export.Service, sheet *record.Sheet, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, sheet: sheet, logger: logger}
}

// Routes registers the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListExports)
	r.Post("/", h.CreateExport)
	r.Get("/{fileID}", h.Download)

	return r
}

type createExportRequest struct {
	Format string `json:"format"`
}

// CreateExport renders the committed rows into a new archived export file
func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	req := createExportRequest{Format: string(export.FormatExcel)}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	info, err := h.svc.Export(r.Context(), export.Format(req.Format), h.sheet.Committed())
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("export failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	metrics.RecordExport(req.Format)
	writeJSON(w, http.StatusCreated, info)
}

// ListExports returns the archived export files
func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("export list failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"total": len(files),
	})
}

// Download streams an archived export file
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file ID")
		return
	}

	rc, info, err := h.svc.Open(r.Context(), fileID)
	if err != nil {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size))

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("export download interrupted",
			slog.String("file_id", fileID.String()),
			slog.Any("error", err),
		)
	}
}
