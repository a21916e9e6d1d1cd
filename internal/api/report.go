package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/internal/domain/report"
	"github.com/clinsalud/registro-clinico/internal/metrics"
)

// ReportHandler provides HTTP handlers for attendance reports
type ReportHandler struct {
	aggregator *report.Aggregator
	sheet      *record.Sheet
	logger     *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(aggregator *report.Aggregator, sheet *record.Sheet, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{aggregator: aggregator, sheet: sheet, logger: logger}
}

// Routes registers the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/quarterly", h.Quarterly)

	return r
}

// Quarterly aggregates the committed rows into per-patient quarterly counts
func (h *ReportHandler) Quarterly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary := h.aggregator.Aggregate(h.sheet.Committed())
	metrics.RecordReportDuration(time.Since(start))

	h.logger.Info("quarterly report generated",
		slog.Int("lines", len(summary.Lines)),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("skipped_rows", summary.SkippedRows),
	)

	writeJSON(w, http.StatusOK, summary)
}
