package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinsalud/registro-clinico/internal/domain/roster"
	"github.com/clinsalud/registro-clinico/internal/metrics"
)

// maxUploadSize caps padrón uploads at 20 MB.
const maxUploadSize = 20 << 20

// RosterHandler provides HTTP handlers for the roster module
type RosterHandler struct {
	svc    *roster.Service
	logger *slog.Logger
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(svc *roster.Service, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{svc: svc, logger: logger}
}

// Routes registers the roster routes
func (h *RosterHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListEntries)
	r.Post("/load", h.LoadFromPath)
	r.Post("/upload", h.Upload)
	r.Get("/lookup/{identifier}", h.Lookup)
	r.Get("/search", h.SearchByName)
	r.Get("/suggest", h.SuggestIdentifiers)

	return r
}

// ListEntries returns the loaded roster in file order
func (h *RosterHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Entries()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

type loadRosterRequest struct {
	Path string `json:"path"`
}

// LoadFromPath replaces the roster from a padrón file on the server
func (h *RosterHandler) LoadFromPath(w http.ResponseWriter, r *http.Request) {
	var req loadRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	result, err := h.svc.LoadFile(req.Path)
	if err != nil {
		h.logger.Error("roster load failed",
			slog.String("path", req.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusUnprocessableEntity, "failed to load roster: "+err.Error())
		return
	}

	metrics.RecordRosterSize(h.svc.Len())
	writeJSON(w, http.StatusOK, result)
}

// Upload replaces the roster from an uploaded padrón file
func (h *RosterHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.svc.Load(file, header.Filename)
	if err != nil {
		h.logger.Error("roster upload failed",
			slog.String("filename", header.Filename),
			slog.Any("error", err),
		)
		writeError(w, http.StatusUnprocessableEntity, "failed to parse roster: "+err.Error())
		return
	}

	metrics.RecordRosterSize(h.svc.Len())
	writeJSON(w, http.StatusOK, result)
}

// Lookup resolves an identifier through the exact-match index
func (h *RosterHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	name, benefit := h.svc.Lookup(identifier)
	found := name != "" || benefit != ""
	metrics.RecordRosterLookup(found)

	if !found {
		// Misses still answer 200 with empty fields; near-miss suggestions
		// help the operator correct a typo.
		writeJSON(w, http.StatusOK, map[string]any{
			"identifier":  identifier,
			"found":       false,
			"suggestions": h.svc.SuggestIdentifiers(identifier, 5),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identifier": identifier,
		"found":      true,
		"name":       name,
		"benefit":    benefit,
	})
}

// SearchByName searches roster names through the full-text index
func (h *RosterHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryLimit(r, 10)

	hits, err := h.svc.SearchByName(query, limit)
	if err != nil {
		h.logger.Error("roster search failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query": query,
		"hits":  hits,
		"total": len(hits),
	})
}

// SuggestIdentifiers returns fuzzy identifier suggestions for partial input
func (h *RosterHandler) SuggestIdentifiers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryLimit(r, 10)

	writeJSON(w, http.StatusOK, map[string]any{
		"query":       query,
		"suggestions": h.svc.SuggestIdentifiers(query, limit),
	})
}

// queryLimit reads a positive "limit" query parameter, falling back to def.
func queryLimit(r *http.Request, def int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
