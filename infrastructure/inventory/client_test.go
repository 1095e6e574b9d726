package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scanstation/infrastructure/inventory"
	"scanstation/infrastructure/inventory/inventorytest"
)

func newLoggedInClient(t *testing.T, username, password string) (*inventory.Client, *inventorytest.Server) {
	t.Helper()
	fake := inventorytest.New()
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

func TestLogin_WrongPasswordReturnsErrLoginFailed(t *testing.T) {
	ts := httptest.NewServer(inventorytest.New())
	defer ts.Close()

	client, err := inventory.New(ts.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = client.Login(context.Background(), "admin", "nope")
	if !errors.Is(err, inventory.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestAPICallWithoutLoginReturnsErrLoginRequired(t *testing.T) {
	ts := httptest.NewServer(inventorytest.New())
	defer ts.Close()

	client, err := inventory.New(ts.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.StockIn(context.Background(), []string{"A"})
	if !errors.Is(err, inventory.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
}

func TestStockIn_CreatedReturnsServerMessage(t *testing.T) {
	client, fake := newLoggedInClient(t, "abhisheka", "12345678")

	msg, err := client.StockIn(context.Background(), []string{"M1-2024-0001", "M1-2024-0002"})
	if err != nil {
		t.Fatalf("stock in: %v", err)
	}
	if msg != "Received 2 barcodes. Added 2 new batteries to stock." {
		t.Fatalf("unexpected message %q", msg)
	}
	if got := fake.LastStockInBatch(); len(got) != 2 || got[0] != "M1-2024-0001" || got[1] != "M1-2024-0002" {
		t.Fatalf("unexpected batch sent: %v", got)
	}
}

func TestStockIn_UnreadableSuccessBodyIsLoggedNotFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("<html>created</html>"))
	}))
	t.Cleanup(ts.Close)

	logs := new(bytes.Buffer)
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	client, err := inventory.New(ts.URL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	msg, err := client.StockIn(context.Background(), []string{"A"})
	if err != nil || msg != "" {
		t.Fatalf("expected empty success, got %q %v", msg, err)
	}
	if !strings.Contains(logs.String(), "stock-in response had no readable message") {
		t.Fatalf("expected the decode error to be logged, got %q", logs.String())
	}
}

func TestStockIn_NonOKStatusIsEndpointError(t *testing.T) {
	client, fake := newLoggedInClient(t, "admin", "admin")
	fake.FailNextStockIn(http.StatusInternalServerError, "database unavailable")

	_, err := client.StockIn(context.Background(), []string{"A"})
	var endpointErr *inventory.EndpointError
	if !errors.As(err, &endpointErr) {
		t.Fatalf("expected EndpointError, got %T %v", err, err)
	}
	if endpointErr.StatusCode != http.StatusInternalServerError || endpointErr.Message != "database unavailable" {
		t.Fatalf("unexpected endpoint error: %+v", endpointErr)
	}
}

func TestStockIn_UnreachableServerIsTransportError(t *testing.T) {
	ts := httptest.NewServer(inventorytest.New())
	base := ts.URL
	ts.Close()

	client, err := inventory.New(base, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.StockIn(context.Background(), []string{"A"})
	var transportErr *inventory.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
}

func TestStockOut_BranchesOnBodyStatus(t *testing.T) {
	client, fake := newLoggedInClient(t, "abhisheka", "12345678")
	fake.SetToday(time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC))

	missing, err := client.StockOut(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("stock out missing: %v", err)
	}
	if missing.Succeeded() || missing.Message != "Barcode not found: NOPE" {
		t.Fatalf("unexpected missing result: %+v", missing)
	}

	if _, err := client.StockIn(context.Background(), []string{"BAT-2501-7"}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	res, err := client.StockOut(context.Background(), "BAT-2501-7")
	if err != nil {
		t.Fatalf("stock out: %v", err)
	}
	if !res.Succeeded() || res.Message != "Battery BAT-2501-7 has been activated." {
		t.Fatalf("unexpected result: %+v", res)
	}

	activated, err := client.ListActivated(context.Background(), "2025-11-11")
	if err != nil {
		t.Fatalf("list activated: %v", err)
	}
	if len(activated) != 1 || activated[0].Model != "BAT" {
		t.Fatalf("unexpected activated rows: %+v", activated)
	}
}

func TestStockSummaryCountsInStockByModel(t *testing.T) {
	client, _ := newLoggedInClient(t, "admin", "admin")
	if _, err := client.StockIn(context.Background(), []string{"X1-01-1", "X1-01-2", "Y2-02-1", "loose"}); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	rows, err := client.StockSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := map[string]int{"Unknown": 1, "X1": 2, "Y2": 1}
	if len(rows) != len(want) {
		t.Fatalf("unexpected summary rows: %+v", rows)
	}
	for _, row := range rows {
		if want[row.Model] != row.BatteryCount {
			t.Fatalf("model %s: expected %d got %d", row.Model, want[row.Model], row.BatteryCount)
		}
	}
}

func TestAdminUserLifecycle(t *testing.T) {
	client, _ := newLoggedInClient(t, "admin", "admin")
	ctx := context.Background()

	msg, err := client.AddUser(ctx, "clerk", "Clerk123!", inventory.RoleExecutive)
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if msg != "User created successfully" {
		t.Fatalf("unexpected add message %q", msg)
	}

	_, err = client.AddUser(ctx, "clerk", "other", inventory.RoleExecutive)
	var endpointErr *inventory.EndpointError
	if !errors.As(err, &endpointErr) || endpointErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate user, got %v", err)
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	var clerkID, adminID int64
	for _, u := range users {
		switch u.Username {
		case "clerk":
			clerkID = u.ID
		case "admin":
			adminID = u.ID
		}
	}
	if clerkID == 0 || adminID == 0 {
		t.Fatalf("expected admin and clerk in %+v", users)
	}

	if _, err := client.UpdatePassword(ctx, clerkID, "Clerk456!"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	_, err = client.DeleteUser(ctx, adminID)
	if !errors.As(err, &endpointErr) || endpointErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 deleting own account, got %v", err)
	}
	if _, err := client.DeleteUser(ctx, clerkID); err != nil {
		t.Fatalf("delete clerk: %v", err)
	}
}

func TestAdminEndpointsRedirectExecutives(t *testing.T) {
	client, _ := newLoggedInClient(t, "abhisheka", "12345678")
	_, err := client.ListUsers(context.Background())
	if !errors.Is(err, inventory.ErrLoginRequired) {
		t.Fatalf("expected redirect to surface as ErrLoginRequired, got %v", err)
	}
}

func TestDownloadReport(t *testing.T) {
	client, fake := newLoggedInClient(t, "admin", "admin")
	fake.SetToday(time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC))
	if _, err := client.StockIn(context.Background(), []string{"Z9-2310-4"}); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	report, err := client.DownloadReport(context.Background(), inventory.StatusInStock, "")
	if err != nil {
		t.Fatalf("download report: %v", err)
	}
	if report.Filename != "report_in_stock_2025-11-11.csv" {
		t.Fatalf("unexpected filename %q", report.Filename)
	}
	if !strings.HasPrefix(string(report.CSV), "barcode,model,mfg_date,status,activation_date\n") {
		t.Fatalf("unexpected csv header: %q", report.CSV)
	}
	if !strings.Contains(string(report.CSV), "Z9-2310-4,Z9,2310,In Stock,") {
		t.Fatalf("expected stock row in csv: %q", report.CSV)
	}

	_, err = client.DownloadReport(context.Background(), "Lost", "")
	var endpointErr *inventory.EndpointError
	if !errors.As(err, &endpointErr) || endpointErr.Message != "Invalid report status" {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestParseBarcode(t *testing.T) {
	model, mfg := inventory.ParseBarcode("LFP48-2407-000123")
	if model != "LFP48" || mfg != "2407" {
		t.Fatalf("unexpected parse: %q %q", model, mfg)
	}
	model, mfg = inventory.ParseBarcode("A-B")
	if model != inventory.UnknownModel || mfg != "" {
		t.Fatalf("expected unknown model, got %q %q", model, mfg)
	}
}
