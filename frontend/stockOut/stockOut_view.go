package stockout

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
)

const scannerLibraryURL = "https://unpkg.com/html5-qrcode"

func StockOutPage(snap PageSnapshot, role string) string {
	var b strings.Builder
	b.WriteString(`<h1>Stock Out</h1><p class="muted">Scan a battery to activate it.</p>`)
	b.WriteString(`<div id="reader" class="reader"></div>`)
	msgClass := "message"
	if snap.Kind != "" {
		msgClass += " " + string(snap.Kind)
	}
	fmt.Fprintf(&b, `<div id="result" class="%s">%s</div>`, msgClass, html.EscapeString(snap.Message))
	display := "none"
	if snap.ScanAgain {
		display = "inline-block"
	}
	fmt.Fprintf(&b, `<button type="button" id="scan-again" style="display:%s">%s</button>`, display, ScanAgainLabel)

	cfg, _ := json.Marshal(map[string]string{
		"scanURL":    "/tasker/api/stock-out/" + snap.SessionID + "/scan",
		"processing": ProcessingMessage,
		"critical":   CriticalErrorMessage,
	})
	b.WriteString(`<script src="` + scannerLibraryURL + `"></script>`)
	b.WriteString(`<script>window.stockOut = ` + string(cfg) + `;</script>`)
	b.WriteString(stockOutScript)

	return sharedhtml.RenderPage(sharedhtml.PageData{
		Title:  "Stock Out",
		Active: nav.KeyStockOut,
		Role:   role,
		Body:   b.String(),
	})
}

const stockOutScript = `<script>
(function () {
  var cfg = window.stockOut;
  var result = document.getElementById("result");
  var again = document.getElementById("scan-again");
  var handled = false;

  function show(kind, text) {
    result.className = "message " + kind;
    result.textContent = text;
  }

  var scanner = new Html5QrcodeScanner("reader", {
    fps: 10,
    qrbox: 250,
    experimentalFeatures: { useBarCodeDetectorIfSupported: true }
  }, false);

  function onScanSuccess(decodedText) {
    if (handled) return;
    handled = true;
    scanner.clear();
    show("loading", cfg.processing);
    csrfFetch(cfg.scanURL, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ barcode: decodedText })
    }).then(function (r) { return r.json(); }).then(function (data) {
      show(data.kind || "error", data.message || cfg.critical);
    }).catch(function () {
      show("error", cfg.critical);
    }).then(function () {
      again.style.display = "inline-block";
    });
  }

  scanner.render(onScanSuccess, function () {});
  again.addEventListener("click", function () { location.reload(); });
})();
</script>`
