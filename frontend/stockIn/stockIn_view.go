package stockin

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
)

// ScannerLibraryURL is the camera decoding library loaded by the page.
const ScannerLibraryURL = "https://unpkg.com/html5-qrcode"

// StockInPage renders the scan page for snap. Mirror pages show the list
// and follow the session's live feed without a camera or submit handler.
func StockInPage(snap PageSnapshot, role string, mirror bool) string {
	var b strings.Builder
	b.WriteString(`<h1>Stock In</h1>`)
	if !mirror {
		b.WriteString(`<div id="reader" class="reader"></div>`)
	} else {
		fmt.Fprintf(&b, `<p class="muted">Following session %s</p>`, html.EscapeString(snap.SessionID))
	}
	b.WriteString(`<h2>Scanned Items</h2><ul id="scanned-list" class="scanned-list">`)
	if snap.Placeholder {
		b.WriteString(`<li class="placeholder">` + placeholderText + `</li>`)
	}
	for _, item := range snap.Items {
		fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(item))
	}
	b.WriteString(`</ul>`)

	display := "none"
	if snap.SubmitVisible {
		display = "block"
	}
	disabled := ""
	if !snap.SubmitEnabled || mirror {
		disabled = " disabled"
	}
	fmt.Fprintf(&b, `<button type="button" id="submit-btn" class="submit-btn" style="display:%s"%s>%s</button>`,
		display, disabled, html.EscapeString(snap.SubmitLabel))

	cfg, _ := json.Marshal(map[string]any{
		"session":        snap.SessionID,
		"mirror":         mirror,
		"decodeURL":      "/tasker/api/stock-in/" + snap.SessionID + "/decode",
		"submitURL":      "/tasker/api/stock-in/" + snap.SessionID + "/submit",
		"feedURL":        "/tasker/ws/stock-in?session=" + snap.SessionID,
		"submittingText": SubmittingLabel,
		"submitText":     SubmitLabel,
	})
	if !mirror {
		b.WriteString(`<script src="` + ScannerLibraryURL + `"></script>`)
	}
	b.WriteString(`<script>window.stockIn = ` + string(cfg) + `;</script>`)
	b.WriteString(stockInScript)

	return sharedhtml.RenderPage(sharedhtml.PageData{
		Title:  "Stock In",
		Active: nav.KeyStockIn,
		Role:   role,
		Body:   b.String(),
	})
}

const stockInScript = `<script>
(function () {
  var cfg = window.stockIn;
  var list = document.getElementById("scanned-list");
  var submitBtn = document.getElementById("submit-btn");

  function append(value) {
    var li = document.createElement("li");
    li.textContent = value;
    list.appendChild(li);
  }
  function firstItem() {
    var ph = list.querySelector(".placeholder");
    if (ph) ph.remove();
    submitBtn.style.display = "block";
  }

  if (cfg.mirror) {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + cfg.feedURL);
    ws.onmessage = function (msg) {
      var evt = JSON.parse(msg.data);
      if (evt.type === "item_appended") append(evt.value);
      if (evt.type === "submit_available") firstItem();
      if (evt.type === "submit_state") { submitBtn.textContent = evt.label; }
      if (evt.type === "reload") { document.querySelector("h1").textContent = "Stock In (submitted)"; }
    };
    return;
  }

  function onScanSuccess(decodedText) {
    csrfFetch(cfg.decodeURL, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ text: decodedText })
    }).then(function (r) { return r.json(); }).then(function (data) {
      if (!data.added) return;
      append(data.value);
      if (data.first) firstItem();
    });
  }
  function onScanFailure() {}

  var scanner = new Html5QrcodeScanner("reader", {
    fps: 10,
    qrbox: 250,
    experimentalFeatures: { useBarCodeDetectorIfSupported: true }
  }, false);
  scanner.render(onScanSuccess, onScanFailure);

  submitBtn.addEventListener("click", function () {
    if (submitBtn.disabled) return;
    submitBtn.disabled = true;
    submitBtn.textContent = cfg.submittingText;
    csrfFetch(cfg.submitURL, { method: "POST" }).then(function (r) {
      return r.json();
    }).then(function (data) {
      if (data.error) {
        alert(data.error);
        submitBtn.disabled = false;
        submitBtn.textContent = cfg.submitText;
        return;
      }
      if (data.message) alert(data.message);
      if (data.reload) { location.reload(); return; }
      submitBtn.disabled = !data.enabled;
      submitBtn.textContent = data.label;
    }).catch(function () {
      alert("Error submitting stock. Check the station connection.");
      submitBtn.disabled = false;
      submitBtn.textContent = cfg.submitText;
    });
  });
})();
</script>`
