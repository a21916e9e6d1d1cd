package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/internal/metrics"
)

// Handlers groups the per-module HTTP handlers mounted on the router.
type Handlers struct {
	Sheet  *SheetHandler
	Roster *RosterHandler
	Report *ReportHandler
	Export *ExportHandler
}

// NewRouter assembles the full HTTP surface: global middleware, health and
// metrics endpoints and the versioned API routes.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	r.Get("/health", healthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/sheet/rows", h.Sheet.Routes())
		r.Mount("/roster", h.Roster.Routes())
		r.Mount("/reports", h.Report.Routes())
		r.Mount("/exports", h.Export.Routes())

		r.Get("/categories", listCategories)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listCategories returns the classification palette so clients can paint
// rows without hardcoding colors.
func listCategories(w http.ResponseWriter, r *http.Request) {
	type categoryInfo struct {
		Category  classification.Category `json:"category"`
		Color     string                  `json:"color"`
		FontColor string                  `json:"font_color"`
	}

	out := make([]categoryInfo, 0, len(classification.Categories))
	for _, c := range classification.Categories {
		out = append(out, categoryInfo{
			Category:  c,
			Color:     classification.Color(c),
			FontColor: classification.FontColor(c),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}
