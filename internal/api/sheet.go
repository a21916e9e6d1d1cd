package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/internal/metrics"
)

// SheetHandler provides HTTP handlers for the editable sheet
type SheetHandler struct {
	sheet  *record.Sheet
	logger *slog.Logger
}

// NewSheetHandler creates a new sheet handler
func NewSheetHandler(sheet *record.Sheet, logger *slog.Logger) *SheetHandler {
	return &SheetHandler{sheet: sheet, logger: logger}
}

// Routes registers the sheet routes
func (h *SheetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListRows)
	r.Get("/committed", h.ListCommitted)
	r.Post("/clear", h.Clear)

	r.Route("/{pos}", func(r chi.Router) {
		r.Get("/", h.GetRow)
		r.Put("/cells/{field}", h.CommitCell)
	})

	return r
}

// ListRows returns the full pool in grid order, blank rows included
func (h *SheetHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	rows := h.sheet.Rows()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows": rows,
		"size": len(rows),
	})
}

// ListCommitted returns only the rows carrying an identifier
func (h *SheetHandler) ListCommitted(w http.ResponseWriter, r *http.Request) {
	rows := h.sheet.Committed()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  rows,
		"count": len(rows),
	})
}

// GetRow returns one row by position
func (h *SheetHandler) GetRow(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row position")
		return
	}

	row, err := h.sheet.Row(pos)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// commitCellRequest carries the edited raw value for one cell.
type commitCellRequest struct {
	Value string `json:"value"`
}

// CommitCell applies an edited cell value and returns the updated row with
// its recomputed derived fields
func (h *SheetHandler) CommitCell(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row position")
		return
	}
	field := record.Field(chi.URLParam(r, "field"))

	var req commitCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	row, err := h.sheet.Commit(pos, field, req.Value)
	switch {
	case errors.Is(err, record.ErrRowOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, record.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("cell commit failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "cell commit failed")
		return
	}

	metrics.RecordCellCommit(string(field))
	metrics.RecordClassification(string(row.Category))

	writeJSON(w, http.StatusOK, row)
}

// Clear resets the whole pool to blank rows
func (h *SheetHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.sheet.Clear()
	h.logger.Info("sheet cleared", slog.Int("rows", h.sheet.Size()))
	writeJSON(w, http.StatusOK, map[string]any{
		"cleared": true,
		"size":    h.sheet.Size(),
	})
}
