package reports

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	sharedhtml "scanstation/frontend/shared/html"
	"scanstation/frontend/shared/nav"
	"scanstation/infrastructure/inventory"
)

func StockPage(data StockPageData) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<h1>%s</h1>`, html.EscapeString(data.Title))
	b.WriteString(`<p class="links"><a href="/tasker/stock">All stock</a> | <a href="/tasker/stock/activated">Activated</a> | <a href="/tasker/stock/export.xlsx">Export XLSX</a></p>`)
	if data.ErrorMessage != "" {
		fmt.Fprintf(&b, `<div class="message error">%s</div>`, html.EscapeString(data.ErrorMessage))
	}
	if data.ShowDate {
		fmt.Fprintf(&b, `<form method="get" action="/tasker/stock/activated"><input type="date" name="date" value="%s"><button type="submit">Filter</button></form>`, html.EscapeString(data.Date))
	}
	reportStatus := url.QueryEscape(inventory.StatusInStock)
	if data.ShowDate {
		reportStatus = url.QueryEscape(inventory.StatusActivated)
	}
	dateParam := ""
	if data.Date != "" {
		dateParam = "&amp;date=" + url.QueryEscape(data.Date)
	}
	fmt.Fprintf(&b, `<p class="downloads">Report: <a href="/tasker/stock/report?status=%s%s&amp;format=csv">CSV</a> | <a href="/tasker/stock/report?status=%s%s&amp;format=xlsx">XLSX</a></p>`,
		reportStatus, dateParam, reportStatus, dateParam)

	b.WriteString(`<table class="stock"><thead><tr>`)
	for _, h := range stockHeaders {
		fmt.Fprintf(&b, `<th>%s</th>`, h)
	}
	b.WriteString(`</tr></thead><tbody>`)
	_, records := StockRecords(data.Rows)
	if len(records) == 0 {
		fmt.Fprintf(&b, `<tr><td colspan="%d">No batteries found.</td></tr>`, len(stockHeaders))
	}
	for _, rec := range records {
		b.WriteString(`<tr>`)
		for _, v := range rec {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(v))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	return sharedhtml.RenderPage(sharedhtml.PageData{Title: data.Title, Active: data.Active, Role: data.Role, Body: b.String()})
}

func SummaryPage(data SummaryPageData) string {
	var b strings.Builder
	b.WriteString(`<h1>Stock Summary</h1>`)
	if data.ErrorMessage != "" {
		fmt.Fprintf(&b, `<div class="message error">%s</div>`, html.EscapeString(data.ErrorMessage))
	}
	b.WriteString(`<table class="summary"><thead><tr><th>Model</th><th>In Stock</th></tr></thead><tbody>`)
	for _, r := range data.Rows {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%d</td></tr>`, html.EscapeString(r.Model), r.BatteryCount)
	}
	fmt.Fprintf(&b, `</tbody><tfoot><tr><th>Total</th><th>%d</th></tr></tfoot></table>`, data.Total)
	return sharedhtml.RenderPage(sharedhtml.PageData{Title: "Stock Summary", Active: nav.KeySummary, Role: data.Role, Body: b.String()})
}
