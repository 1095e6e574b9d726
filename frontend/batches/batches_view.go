package batches

import (
	"fmt"
	"html"
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
	"scanstation/models"
)

const timeLayout = "02/01/2006 15:04"

func BatchesPage(data PageData) string {
	var b strings.Builder
	b.WriteString(`<h1>Batches</h1>`)
	if data.Message != "" {
		fmt.Fprintf(&b, `<div class="message error">%s</div>`, html.EscapeString(data.Message))
	}
	b.WriteString(`<form method="get" action="/tasker/batches" class="filters"><select name="kind">`)
	for _, opt := range [][2]string{{"", "All kinds"}, {models.KindStockIn, "Stock in"}, {models.KindStockOut, "Stock out"}} {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, opt[0], selected(opt[0] == data.Filter.Kind), opt[1])
	}
	b.WriteString(`</select><select name="outcome">`)
	for _, opt := range [][2]string{{"", "All outcomes"}, {models.OutcomeSuccess, "Success"}, {models.OutcomeFailure, "Failure"}} {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, opt[0], selected(opt[0] == data.Filter.Outcome), opt[1])
	}
	b.WriteString(`</select><button type="submit">Filter</button></form>`)

	b.WriteString(`<table class="batches"><thead><tr><th>When</th><th>Kind</th><th>Operator</th><th>Barcodes</th><th>Outcome</th><th>Message</th><th></th></tr></thead><tbody>`)
	if len(data.Batches) == 0 {
		b.WriteString(`<tr><td colspan="7">No submissions journaled yet.</td></tr>`)
	}
	for _, batch := range data.Batches {
		fmt.Fprintf(&b, `<tr class="%s"><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td><a href="/tasker/batches/%s">View</a></td></tr>`,
			batch.Outcome,
			batch.CreatedAt.Local().Format(timeLayout),
			html.EscapeString(batch.Kind),
			html.EscapeString(batch.Operator),
			batch.BarcodeCount,
			html.EscapeString(batch.Outcome),
			html.EscapeString(batch.Message),
			html.EscapeString(batch.ID),
		)
	}
	b.WriteString(`</tbody></table>`)
	return sharedhtml.RenderPage(sharedhtml.PageData{Title: "Batches", Active: nav.KeyBatches, Role: data.Role, Body: b.String()})
}

func BatchDetailPage(data DetailData) string {
	batch := data.Batch
	var b strings.Builder
	fmt.Fprintf(&b, `<h1>Batch %s</h1>`, html.EscapeString(batch.ID))
	fmt.Fprintf(&b, `<p>%s by %s at %s, %d ms. Outcome: <strong>%s</strong></p>`,
		html.EscapeString(batch.Kind), html.EscapeString(batch.Operator),
		batch.CreatedAt.Local().Format(timeLayout), batch.DurationMS, html.EscapeString(batch.Outcome))
	if batch.Message != "" {
		fmt.Fprintf(&b, `<p class="message">%s</p>`, html.EscapeString(batch.Message))
	}
	if batch.Kind == models.KindStockIn {
		fmt.Fprintf(&b, `<p><a href="/tasker/batches/%s/sheet.pdf">Batch sheet (PDF)</a></p>`, html.EscapeString(batch.ID))
	}
	b.WriteString(`<table><thead><tr><th>#</th><th>Barcode</th><th>Model</th></tr></thead><tbody>`)
	for i, code := range batch.Barcodes {
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, i+1, html.EscapeString(code), html.EscapeString(data.Models[code]))
	}
	b.WriteString(`</tbody></table><h2>Audit</h2><ul class="audit">`)
	for _, log := range data.Audit {
		fmt.Fprintf(&b, `<li>%s %s by %s: %s</li>`, log.CreatedAt.Local().Format(timeLayout), html.EscapeString(log.Action), html.EscapeString(log.Operator), html.EscapeString(log.AfterJSON))
	}
	b.WriteString(`</ul>`)
	return sharedhtml.RenderPage(sharedhtml.PageData{Title: "Batch", Active: nav.KeyBatches, Role: data.Role, Body: b.String()})
}

func selected(ok bool) string {
	if ok {
		return " selected"
	}
	return ""
}
