package stockin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	sessioncookie "scanstation/infrastructure/session"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []Event
}

func (c *capturedEvents) Notify(_ string, evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *capturedEvents) Types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func newKioskServer(t *testing.T, sub Submitter, notifier Notifier) (*httptest.Server, *Kiosk, *http.Client) {
	t.Helper()
	kiosk := NewKiosk(nil, sub, nil, notifier)
	r := chi.NewRouter()
	r.Get("/tasker/stock-in", StockInPageQueryHandler(kiosk, "executive"))
	r.Get("/tasker/stock-in/{session}", StockInMirrorPageQueryHandler(kiosk, "executive"))
	r.Post("/tasker/api/stock-in/{session}/decode", DecodeCommandHandler(kiosk))
	r.Post("/tasker/api/stock-in/{session}/submit", SubmitCommandHandler(kiosk))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return ts, kiosk, &http.Client{Jar: jar}
}

func openPage(t *testing.T, ts *httptest.Server, client *http.Client) (string, string) {
	t.Helper()
	resp, err := client.Get(ts.URL + "/tasker/stock-in")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read page: %v", err)
	}
	var id string
	for _, c := range resp.Cookies() {
		if c.Name == sessioncookie.CookieName {
			id = c.Value
		}
	}
	if id == "" {
		t.Fatalf("expected scan session cookie")
	}
	return id, buf.String()
}

func postJSON(t *testing.T, client *http.Client, url, body string, out any) int {
	t.Helper()
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestStockInPage_RendersPlaceholderAndHiddenSubmit(t *testing.T) {
	ts, _, client := newKioskServer(t, &fakeSubmitter{}, nil)
	_, page := openPage(t, ts, client)

	for _, want := range []string{
		`<li class="placeholder">No items scanned yet.</li>`,
		`id="submit-btn" class="submit-btn" style="display:none"`,
		`>Submit Stock</button>`,
		`fps: 10`,
		`qrbox: 250`,
		`useBarCodeDetectorIfSupported: true`,
		ScannerLibraryURL,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestDecodeAndSubmitOverHTTP(t *testing.T) {
	sub := &fakeSubmitter{message: "Received 2 barcodes. Added 2 new batteries to stock."}
	events := &capturedEvents{}
	ts, kiosk, client := newKioskServer(t, sub, events)
	id, _ := openPage(t, ts, client)
	decodeURL := ts.URL + "/tasker/api/stock-in/" + id + "/decode"

	var first, dup, second decodeResponse
	postJSON(t, client, decodeURL, `{"text":"A"}`, &first)
	postJSON(t, client, decodeURL, `{"text":"A"}`, &dup)
	postJSON(t, client, decodeURL, `{"text":"B"}`, &second)
	if !first.Added || !first.First || first.Value != "A" {
		t.Fatalf("unexpected first decode response %+v", first)
	}
	if dup.Added || dup.Count != 1 {
		t.Fatalf("duplicate should be ignored, got %+v", dup)
	}
	if !second.Added || second.First || second.Count != 2 {
		t.Fatalf("unexpected second decode response %+v", second)
	}

	var failure decodeResponse
	postJSON(t, client, decodeURL, `{"error":"No MultiFormat Readers were able to detect the code."}`, &failure)
	if failure.Added || failure.Count != 2 {
		t.Fatalf("decode failure must not change the list, got %+v", failure)
	}

	var submitted submitResponse
	status := postJSON(t, client, ts.URL+"/tasker/api/stock-in/"+id+"/submit", ``, &submitted)
	if status != http.StatusOK || !submitted.OK || !submitted.Reload {
		t.Fatalf("unexpected submit response %d %+v", status, submitted)
	}
	if submitted.Message != sub.message {
		t.Fatalf("expected server message, got %q", submitted.Message)
	}

	var again errorResponse
	if status := postJSON(t, client, ts.URL+"/tasker/api/stock-in/"+id+"/submit", ``, &again); status != http.StatusConflict {
		t.Fatalf("expected 409 after reload, got %d", status)
	}

	ks, ok := kiosk.Find(id)
	if !ok {
		t.Fatalf("session should still be known until the page reloads")
	}
	if !ks.Reloaded() {
		t.Fatalf("session should be reloaded")
	}

	types := strings.Join(events.Types(), ",")
	if types != "item_appended,submit_available,item_appended,submit_state,alert,reload" {
		t.Fatalf("unexpected event sequence %s", types)
	}

	newID, page := openPage(t, ts, client)
	if newID == id {
		t.Fatalf("reload must start a new session")
	}
	if _, ok := kiosk.Find(id); ok {
		t.Fatalf("old session should be dropped on reload")
	}
	if !strings.Contains(page, "No items scanned yet.") {
		t.Fatalf("new page should start empty")
	}
}

func TestDecodeRejectsForeignDisplay(t *testing.T) {
	ts, _, owner := newKioskServer(t, &fakeSubmitter{}, nil)
	id, _ := openPage(t, ts, owner)

	stranger := &http.Client{}
	var out errorResponse
	if status := postJSON(t, stranger, ts.URL+"/tasker/api/stock-in/"+id+"/decode", `{"text":"A"}`, &out); status != http.StatusForbidden {
		t.Fatalf("expected 403 for a display that does not own the session, got %d", status)
	}
	if status := postJSON(t, owner, ts.URL+"/tasker/api/stock-in/missing/decode", `{"text":"A"}`, &out); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", status)
	}
}

func TestMirrorPageShowsQueuedItems(t *testing.T) {
	ts, _, client := newKioskServer(t, &fakeSubmitter{}, nil)
	id, _ := openPage(t, ts, client)
	postJSON(t, client, ts.URL+"/tasker/api/stock-in/"+id+"/decode", `{"text":"<X>"}`, nil)

	resp, err := http.Get(ts.URL + "/tasker/stock-in/" + id)
	if err != nil {
		t.Fatalf("get mirror: %v", err)
	}
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	page := buf.String()
	if !strings.Contains(page, "<li>&lt;X&gt;</li>") {
		t.Fatalf("mirror should list the escaped item: %s", page)
	}
	if strings.Contains(page, "No items scanned yet.") {
		t.Fatalf("placeholder should be gone once an item is queued")
	}
	if strings.Contains(page, ScannerLibraryURL) {
		t.Fatalf("mirror must not start a camera")
	}
}

func TestSubmitOnReplacedSessionReturnsError(t *testing.T) {
	sub := &fakeSubmitter{}
	ts, _, client := newKioskServer(t, sub, nil)
	oldID, _ := openPage(t, ts, client)
	postJSON(t, client, ts.URL+"/tasker/api/stock-in/"+oldID+"/decode", `{"text":"A"}`, nil)

	newID, _ := openPage(t, ts, client)
	if newID == oldID {
		t.Fatalf("second page should open a new session")
	}

	var out errorResponse
	status := postJSON(t, client, ts.URL+"/tasker/api/stock-in/"+oldID+"/submit", ``, &out)
	if status != http.StatusNotFound || out.Error != "scan session not found" {
		t.Fatalf("expected 404 with error body, got %d %+v", status, out)
	}
	if len(sub.Calls()) != 0 {
		t.Fatalf("no request may reach the station for a dropped session")
	}
}

func TestStockInPage_ErrorBodyRestoresSubmitTrigger(t *testing.T) {
	ts, _, client := newKioskServer(t, &fakeSubmitter{}, nil)
	_, page := openPage(t, ts, client)

	start := strings.Index(page, "if (data.error) {")
	if start < 0 {
		t.Fatalf("script should handle error bodies")
	}
	branch := page[start:]
	branch = branch[:strings.Index(branch, "return;")]
	for _, want := range []string{
		"alert(data.error);",
		"submitBtn.disabled = false;",
		"submitBtn.textContent = cfg.submitText;",
	} {
		if !strings.Contains(branch, want) {
			t.Fatalf("error branch missing %q:\n%s", want, branch)
		}
	}
}

func TestConcurrentDecodesReportOneFirst(t *testing.T) {
	ts, _, client := newKioskServer(t, &fakeSubmitter{}, nil)
	id, _ := openPage(t, ts, client)
	decodeURL := ts.URL + "/tasker/api/stock-in/" + id + "/decode"

	values := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	results := make([]decodeResponse, len(values))
	var wg sync.WaitGroup
	for i, v := range values {
		wg.Add(1)
		go func(i int, v string) {
			defer wg.Done()
			resp, err := client.Post(decodeURL, "application/json", strings.NewReader(`{"text":"`+v+`"}`))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			_ = json.NewDecoder(resp.Body).Decode(&results[i])
		}(i, v)
	}
	wg.Wait()

	firsts := 0
	for _, res := range results {
		if !res.Added {
			t.Fatalf("every distinct value should be added, got %+v", res)
		}
		if res.First {
			firsts++
		}
	}
	if firsts != 1 {
		t.Fatalf("exactly one decode should reveal the submit trigger, got %d", firsts)
	}
}
