package labels

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"scanstation/frontend/batches"
	"scanstation/infrastructure/sqlite"
	"scanstation/models"
)

// BatchSheetHandler serves /tasker/batches/{id}/sheet.pdf.
func BatchSheetHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		batch, err := batches.LoadBatch(r.Context(), db, id)
		if errors.Is(err, batches.ErrBatchNotFound) {
			http.Error(w, "batch not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("labels: failed to load batch", slog.String("batch", id), slog.Any("err", err))
			http.Error(w, "failed to load batch", http.StatusInternalServerError)
			return
		}
		if batch.Kind != models.KindStockIn {
			http.Error(w, "only stock-in batches have a sheet", http.StatusBadRequest)
			return
		}

		pdfBytes, err := RenderBatchSheetPDF(SheetFromBatch(batch), time.Now())
		if errors.Is(err, ErrEmptySheet) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("labels: failed to render batch sheet", slog.String("batch", id), slog.Any("err", err))
			http.Error(w, "failed to render batch sheet", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", SheetFilename(batch.ID)))
		_, _ = w.Write(pdfBytes)
	}
}

func SheetFromBatch(batch batches.BatchView) SheetData {
	return SheetData{
		BatchID:   batch.ID,
		Operator:  batch.Operator,
		Barcodes:  batch.Barcodes,
		CreatedAt: batch.CreatedAt,
	}
}

func SheetFilename(batchID string) string {
	return "batch-" + batchID + ".pdf"
}
