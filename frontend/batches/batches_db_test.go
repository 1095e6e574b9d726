package batches

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"scanstation/infrastructure/audit"
	"scanstation/infrastructure/inventory"
	"scanstation/infrastructure/sqlite"
	"scanstation/models"
)

func openJournalTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "journal-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestRecordStockInWritesBatchAndAudit(t *testing.T) {
	db := openJournalTestDB(t)
	auditSvc := audit.NewService()
	journal := NewJournal(db, auditSvc, "dock-1")
	journal.newID = func() string { return "batch-1" }

	err := journal.RecordStockIn(context.Background(), "sess-1", []string{"A-1-1", "B-2-2"}, "Received 2 barcodes.", nil, 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("record stock in: %v", err)
	}

	batch, err := LoadBatch(context.Background(), db, "batch-1")
	if err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if batch.Kind != models.KindStockIn || !batch.Succeeded() || batch.Operator != "dock-1" || batch.SessionID != "sess-1" {
		t.Fatalf("unexpected batch %+v", batch.Batch)
	}
	if strings.Join(batch.Barcodes, ",") != "A-1-1,B-2-2" || batch.BarcodeCount != 2 || batch.DurationMS != 1500 {
		t.Fatalf("unexpected barcodes or duration %+v", batch)
	}

	detail, err := LoadDetail(context.Background(), db, auditSvc, "batch-1")
	if err != nil {
		t.Fatalf("load detail: %v", err)
	}
	if len(detail.Audit) != 1 || detail.Audit[0].Action != "batch.record" || detail.Audit[0].Operator != "dock-1" {
		t.Fatalf("unexpected audit trail %+v", detail.Audit)
	}
}

func TestRecordFailuresKeepErrorText(t *testing.T) {
	db := openJournalTestDB(t)
	journal := NewJournal(db, nil, "dock-1")

	submitErr := &inventory.TransportError{Op: "stock-in", Err: errors.New("connection refused")}
	if err := journal.RecordStockIn(context.Background(), "s", []string{"A"}, "", submitErr, 0); err != nil {
		t.Fatalf("record stock in: %v", err)
	}
	if err := journal.RecordStockOut(context.Background(), "s2", "B", false, "Barcode not found: B", 0); err != nil {
		t.Fatalf("record stock out: %v", err)
	}
	if err := journal.RecordStockOut(context.Background(), "s3", "C", true, "Battery C has been activated.", 0); err != nil {
		t.Fatalf("record stock out: %v", err)
	}

	failures, err := ListBatches(context.Background(), db, ListFilter{Outcome: models.OutcomeFailure})
	if err != nil {
		t.Fatalf("list failures: %v", err)
	}
	if len(failures) != 2 {
		t.Fatalf("expected two failures, got %d", len(failures))
	}
	for _, f := range failures {
		if f.Kind == models.KindStockIn && !strings.Contains(f.Message, "connection refused") {
			t.Fatalf("stock-in failure should keep the error text, got %q", f.Message)
		}
	}

	outs, err := ListBatches(context.Background(), db, ListFilter{Kind: models.KindStockOut, Limit: 1})
	if err != nil {
		t.Fatalf("list stock outs: %v", err)
	}
	if len(outs) != 1 || outs[0].Kind != models.KindStockOut {
		t.Fatalf("unexpected stock-out list %+v", outs)
	}
}

func TestLoadBatchNotFound(t *testing.T) {
	db := openJournalTestDB(t)
	if _, err := LoadBatch(context.Background(), db, "missing"); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestBatchPages(t *testing.T) {
	db := openJournalTestDB(t)
	auditSvc := audit.NewService()
	journal := NewJournal(db, auditSvc, "dock-1")
	journal.newID = func() string { return "b-42" }
	if err := journal.RecordStockIn(context.Background(), "s", []string{"LFP48-2407-000123"}, "ok", nil, 0); err != nil {
		t.Fatalf("record: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/tasker/batches", BatchesPageQueryHandler(db, "admin"))
	r.Get("/tasker/batches/{id}", BatchDetailPageQueryHandler(db, auditSvc, "admin"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasker/batches?kind=stock_in", nil))
	if !strings.Contains(rec.Body.String(), `<a href="/tasker/batches/b-42">View</a>`) {
		t.Fatalf("expected batch link in list")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasker/batches/b-42", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "<td>LFP48-2407-000123</td><td>LFP48</td>") || !strings.Contains(body, "/tasker/batches/b-42/sheet.pdf") {
		t.Fatalf("unexpected detail page:\n%s", body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasker/batches/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
