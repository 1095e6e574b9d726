package reports

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"scanstation/infrastructure/inventory"
	"scanstation/infrastructure/inventory/inventorytest"
)

func newSource(t *testing.T, username, password string) (*inventory.Client, *inventorytest.Server) {
	t.Helper()
	fake := inventorytest.New()
	fake.SetToday(time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC))
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	client, err := inventory.New(ts.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Login(context.Background(), username, password); err != nil {
		t.Fatalf("login: %v", err)
	}
	return client, fake
}

func TestLoadSummarySortsAndTotals(t *testing.T) {
	src, _ := newSource(t, "admin", "admin")
	if _, err := src.StockIn(context.Background(), []string{"A1-01-1", "B2-01-1", "B2-01-2", "B2-01-3", "A1-01-2"}); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	rows, total, err := LoadSummary(context.Background(), src)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if total != 5 || len(rows) != 2 || rows[0].Model != "B2" || rows[0].BatteryCount != 3 {
		t.Fatalf("unexpected summary %+v total=%d", rows, total)
	}
}

func TestDownloadXLSX(t *testing.T) {
	src, _ := newSource(t, "admin", "admin")
	if _, err := src.StockIn(context.Background(), []string{"Z9-2310-4"}); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	name, body, err := Download(context.Background(), src, inventory.StatusInStock, "", FormatXLSX)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if name != "report_in_stock_2025-11-11.xlsx" {
		t.Fatalf("unexpected filename %q", name)
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	header, err := f.GetCellValue("Report", "A1")
	if err != nil || header != "barcode" {
		t.Fatalf("unexpected header %q %v", header, err)
	}
	barcode, err := f.GetCellValue("Report", "A2")
	if err != nil || barcode != "Z9-2310-4" {
		t.Fatalf("unexpected first row %q %v", barcode, err)
	}
}

func TestDownloadRejectsBadDate(t *testing.T) {
	src, _ := newSource(t, "admin", "admin")
	if _, _, err := Download(context.Background(), src, inventory.StatusActivated, "11/11/2025", FormatCSV); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDownloadReportHandler_ExecutiveIsRedirectedWithError(t *testing.T) {
	src, _ := newSource(t, "abhisheka", "12345678")
	rec := httptest.NewRecorder()
	DownloadReportHandler(src).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasker/stock/report?status=In+Stock", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=station+account+is+not+allowed") {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestStockPageListsRows(t *testing.T) {
	src, _ := newSource(t, "abhisheka", "12345678")
	if _, err := src.StockIn(context.Background(), []string{"M1-2401-9"}); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	rec := httptest.NewRecorder()
	StockPageQueryHandler(src, inventory.RoleExecutive).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasker/stock", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "<td>M1-2401-9</td><td>M1</td><td>2401</td><td>In Stock</td>") {
		t.Fatalf("expected stock row in page:\n%s", body)
	}
}

func TestWriteXLSXBoldHeader(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteXLSX(buf, "Stock", []string{"Barcode", "Model"}, [][]string{{"X-1-1", "X"}}); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Stock" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	styleID, err := f.GetCellStyle("Stock", "A1")
	if err != nil {
		t.Fatalf("get style: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("get style def: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Fatalf("header should be bold")
	}
}
