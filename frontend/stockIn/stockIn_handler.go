package stockin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncookie "scanstation/infrastructure/session"
)

type decodeRequest struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

type decodeResponse struct {
	Added bool   `json:"added"`
	Value string `json:"value,omitempty"`
	Count int    `json:"count"`
	// First is set when this value revealed the submit trigger.
	First bool `json:"first"`
}

type submitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Reload  bool   `json:"reload"`
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StockInPageQueryHandler opens a new scan session and renders its page.
func StockInPageQueryHandler(kiosk *Kiosk, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ks := kiosk.Open(sessioncookie.ScanSessionID(r))
		http.SetCookie(w, sessioncookie.ScanSessionCookie(ks.ID))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(StockInPage(ks.Page.Snapshot(), role, false)))
	}
}

// StockInMirrorPageQueryHandler renders an existing session for another
// display. Mirrors follow the list but cannot scan or submit.
func StockInMirrorPageQueryHandler(kiosk *Kiosk, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ks, ok := kiosk.Find(chi.URLParam(r, "session"))
		if !ok {
			http.Error(w, "scan session not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(StockInPage(ks.Page.Snapshot(), role, true)))
	}
}

// DecodeCommandHandler feeds one decoder callback into the session.
func DecodeCommandHandler(kiosk *Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ks, ok := ownedSession(w, r, kiosk)
		if !ok {
			return
		}
		var req decodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid decode payload"})
			return
		}
		dec := ks.Decoder()
		if req.Error != "" {
			dec.OnDecodeFailure(errors.New(req.Error))
			writeJSON(w, http.StatusOK, decodeResponse{Count: len(ks.Values())})
			return
		}
		ins := dec.OnDecodeSuccess(req.Text)
		resp := decodeResponse{Added: ins.Added, Count: ins.Count, First: ins.First}
		if ins.Added {
			resp.Value = req.Text
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// SubmitCommandHandler handles a click on the submit trigger.
func SubmitCommandHandler(kiosk *Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ks, ok := ownedSession(w, r, kiosk)
		if !ok {
			return
		}
		// A closed tab must not abort a batch the server may already be storing.
		outcome, err := ks.Submit(context.WithoutCancel(r.Context()))
		switch {
		case errors.Is(err, ErrSubmitInProgress), errors.Is(err, ErrSessionReloaded):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		case errors.Is(err, ErrEmptyBatch):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		case err != nil:
			slog.Error("stock-in submit failed", slog.String("session_id", ks.ID), slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "submit failed"})
			return
		}

		snap := ks.Page.Snapshot()
		writeJSON(w, http.StatusOK, submitResponse{
			OK:      outcome.OK(),
			Message: snap.LastAlert,
			Reload:  snap.Reloaded,
			Enabled: snap.SubmitEnabled,
			Label:   snap.SubmitLabel,
		})
	}
}

func ownedSession(w http.ResponseWriter, r *http.Request, kiosk *Kiosk) (*KioskSession, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "session"))
	ks, ok := kiosk.Find(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "scan session not found"})
		return nil, false
	}
	if sessioncookie.ScanSessionID(r) != id {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "scan session belongs to another display"})
		return nil, false
	}
	return ks, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
