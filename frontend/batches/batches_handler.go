package batches

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"scanstation/infrastructure/audit"
	"scanstation/infrastructure/inventory"
	"scanstation/infrastructure/sqlite"
	"scanstation/models"
)

// BatchesPageQueryHandler lists recent journaled submissions.
func BatchesPageQueryHandler(db *sqlite.DB, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Kind:    normalizeKind(r.URL.Query().Get("kind")),
			Outcome: normalizeOutcome(r.URL.Query().Get("outcome")),
		}
		data := PageData{Role: role, Filter: filter}
		rows, err := ListBatches(r.Context(), db, filter)
		if err != nil {
			slog.Error("batches: failed to list", slog.Any("err", err))
			data.Message = "failed to load journal"
		}
		data.Batches = rows
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(BatchesPage(data)))
	}
}

func BatchDetailPageQueryHandler(db *sqlite.DB, auditSvc *audit.Service, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := LoadDetail(r.Context(), db, auditSvc, chi.URLParam(r, "id"))
		if errors.Is(err, ErrBatchNotFound) {
			http.Error(w, "batch not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("batches: failed to load batch", slog.Any("err", err))
			http.Error(w, "failed to load batch", http.StatusInternalServerError)
			return
		}
		data.Role = role
		data.Models = make(map[string]string, len(data.Batch.Barcodes))
		for _, code := range data.Batch.Barcodes {
			model, _ := inventory.ParseBarcode(code)
			data.Models[code] = model
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(BatchDetailPage(data)))
	}
}

func normalizeKind(v string) string {
	switch strings.TrimSpace(v) {
	case models.KindStockIn, models.KindStockOut:
		return strings.TrimSpace(v)
	}
	return ""
}

func normalizeOutcome(v string) string {
	switch strings.TrimSpace(v) {
	case models.OutcomeSuccess, models.OutcomeFailure:
		return strings.TrimSpace(v)
	}
	return ""
}
