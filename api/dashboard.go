package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/garnizeh/workshop/internal/export"
	"github.com/garnizeh/workshop/pkg/models"
	"github.com/garnizeh/workshop/pkg/repository"
)

type DashboardHandler struct {
	statsRepo  repository.StatsRepo
	repairRepo repository.RepairRepo
	now        func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler with required dependencies.
func NewDashboardHandler(sr repository.StatsRepo, rr repository.RepairRepo) *DashboardHandler {
	return &DashboardHandler{statsRepo: sr, repairRepo: rr, now: time.Now}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsRepo.DashboardStats(r.Context())
	if err != nil {
		writeStoreError(w, r, "dashboard stats", err)
		return
	}
	writeJSON(w, stats, http.StatusOK)
}

// Export writes the filtered repair list as a CSV (default) or XLSX download.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	contentType, ok := export.ContentType(format)
	if !ok {
		writeError(w, "Unsupported export format", http.StatusBadRequest)
		return
	}

	jobs, err := h.repairRepo.ListRepairs(r.Context(), models.RepairFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeStoreError(w, r, "export repairs", err)
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	rows := export.Rows(jobs)
	if format == export.FormatXLSX {
		err = export.WriteXLSX(&buf, "Repairs", export.Headers, rows)
	} else {
		err = export.WriteCSV(&buf, export.Headers, rows)
	}
	if err != nil {
		logger.Error("render export", "format", format, "err", err)
		writeError(w, "Export failed", http.StatusInternalServerError)
		return
	}

	filename := "repairs-" + h.now().UTC().Format("20060102") + "." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
