package help

import (
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
)

func HelpPage(data PageData, role string) string {
	var b strings.Builder
	b.WriteString(`<h1>Help</h1>`)
	b.WriteString(`<section><h2>Stock In</h2><ol>
<li>Open Stock In and allow camera access. Point the camera at each battery barcode.</li>
<li>Every new barcode appears once in Scanned Items. Scanning the same battery again does nothing.</li>
<li>Press Submit Stock when the batch is complete. The page reloads with an empty list after a successful submit.</li>
<li>If the submit fails the list is kept. Check the station connection and press submit again.</li>
</ol><p>Reloading the page starts a new batch and drops unsent scans.</p>
<p>A second screen can follow a batch at <code>/tasker/stock-in/&lt;session&gt;</code>. It shows the list but cannot scan or submit.</p></section>`)
	b.WriteString(`<section><h2>Stock Out</h2><ol>
<li>Open Stock Out and scan one battery. The scanner stops after the first barcode.</li>
<li>Wait for the result, then press Scan Again for the next battery.</li>
</ol></section>`)
	b.WriteString(`<section><h2>Batches</h2><p>Every submission made from this station is kept in the local journal with its outcome. Open a stock-in batch to print its batch sheet.</p></section>`)
	if data.IsAdmin {
		b.WriteString(`<section><h2>Administration</h2><p>Admin Users manages the inventory server accounts. Stock View offers CSV and Excel reports of stock in hand and activated batteries.</p></section>`)
	}
	return sharedhtml.RenderPage(sharedhtml.PageData{Title: "Help", Active: nav.KeyHelp, Role: role, Body: b.String()})
}
