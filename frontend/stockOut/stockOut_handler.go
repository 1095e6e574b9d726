package stockout

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type scanRequest struct {
	Barcode string `json:"barcode"`
}

type scanResponse struct {
	Result
	Ignored bool `json:"ignored"`
}

// StockOutPageQueryHandler opens a new flow and renders its page.
func StockOutPageQueryHandler(kiosk *Kiosk, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kf := kiosk.Open()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(StockOutPage(kf.Snapshot(), role)))
	}
}

// ScanCommandHandler activates the first barcode decoded by a page.
func ScanCommandHandler(kiosk *Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kf, ok := kiosk.Find(chi.URLParam(r, "session"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "stock-out session not found"})
			return
		}
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Barcode) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "barcode is required"})
			return
		}
		result, done := kf.OnDecodeSuccess(context.WithoutCancel(r.Context()), req.Barcode)
		if !done {
			prev, _ := kf.Result()
			writeJSON(w, http.StatusOK, scanResponse{Result: prev, Ignored: true})
			return
		}
		writeJSON(w, http.StatusOK, scanResponse{Result: result})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
