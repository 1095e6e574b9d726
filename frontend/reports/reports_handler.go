package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"scanstation/frontend/shared/nav"
	"scanstation/infrastructure/inventory"
)

// StockPageQueryHandler renders every battery the server knows.
func StockPageQueryHandler(src Source, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := StockPageData{Role: role, Title: "Stock View", Active: nav.KeyStockView}
		rows, err := LoadStock(r.Context(), src)
		if err != nil {
			slog.Error("reports: failed to load stock", slog.Any("err", err))
			data.ErrorMessage = errorMessage(err)
		}
		data.Rows = rows
		if msg := r.URL.Query().Get("error"); msg != "" {
			data.ErrorMessage = msg
		}
		writeHTML(w, StockPage(data))
	}
}

// ActivatedPageQueryHandler renders activated batteries, optionally for a date.
func ActivatedPageQueryHandler(src Source, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := strings.TrimSpace(r.URL.Query().Get("date"))
		data := StockPageData{Role: role, Title: "Activated Stock", Active: nav.KeyStockView, Date: date, ShowDate: true}
		rows, err := LoadActivated(r.Context(), src, date)
		if err != nil {
			slog.Error("reports: failed to load activated stock", slog.Any("err", err))
			data.ErrorMessage = errorMessage(err)
		}
		data.Rows = rows
		writeHTML(w, StockPage(data))
	}
}

func SummaryPageQueryHandler(src Source, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SummaryPageData{Role: role}
		rows, total, err := LoadSummary(r.Context(), src)
		if err != nil {
			slog.Error("reports: failed to load summary", slog.Any("err", err))
			data.ErrorMessage = errorMessage(err)
		}
		data.Rows, data.Total = rows, total
		writeHTML(w, SummaryPage(data))
	}
}

// DownloadReportHandler streams a server report as CSV or XLSX.
func DownloadReportHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		status := q.Get("status")
		if status == "" {
			status = inventory.StatusInStock
		}
		format := q.Get("format")
		filename, body, err := Download(r.Context(), src, status, strings.TrimSpace(q.Get("date")), format)
		if err != nil {
			http.Redirect(w, r, "/tasker/stock?error="+url.QueryEscape(errorMessage(err)), http.StatusSeeOther)
			return
		}
		contentType := "text/csv"
		if format == FormatXLSX {
			contentType = xlsxContentType
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write(body)
	}
}

// ExportStockHandler exports the stock view itself as XLSX.
func ExportStockHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := LoadStock(r.Context(), src)
		if err != nil {
			http.Redirect(w, r, "/tasker/stock?error="+url.QueryEscape(errorMessage(err)), http.StatusSeeOther)
			return
		}
		headers, records := StockRecords(rows)
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="stock.xlsx"`)
		if err := WriteXLSX(w, "Stock", headers, records); err != nil {
			slog.Error("reports: failed to write stock workbook", slog.Any("err", err))
		}
	}
}

func errorMessage(err error) string {
	var endpointErr *inventory.EndpointError
	switch {
	case errors.As(err, &endpointErr) && endpointErr.Message != "":
		return endpointErr.Message
	case errors.Is(err, inventory.ErrLoginRequired):
		return "station account is not allowed to view this report"
	case errors.Is(err, ErrInvalidDate):
		return ErrInvalidDate.Error()
	}
	var transportErr *inventory.TransportError
	if errors.As(err, &transportErr) {
		return "inventory server unreachable"
	}
	return err.Error()
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
