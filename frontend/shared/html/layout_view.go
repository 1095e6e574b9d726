package html

import (
	"fmt"
	"html"

	"scanstation/frontend/shared/nav"
)

func RenderLayout(title, body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s</body></html>", html.EscapeString(title), body)
}

// PageData is the station chrome around a page body.
type PageData struct {
	Title  string
	Active string
	Role   string
	Flash  string
	Body   string
}

// RenderPage wraps body with the drawer, an optional flash message and the
// CSRF helpers.
func RenderPage(p PageData) string {
	flash := ""
	if p.Flash != "" {
		flash = fmt.Sprintf(`<div class="flash">%s</div>`, html.EscapeString(p.Flash))
	}
	body := nav.RenderDrawer(nav.DrawerData{Active: p.Active, Role: p.Role}) +
		`<main class="container">` + flash + p.Body + `</main>` +
		CSRFFormScript() + CSRFFetchScript()
	return RenderLayout(p.Title, body)
}
