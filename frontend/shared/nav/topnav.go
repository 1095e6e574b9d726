package nav

import (
	"fmt"
	"html"
	"strings"
)

// Item is one drawer entry.
type Item struct {
	Key       string
	Label     string
	Href      string
	AdminOnly bool
}

const (
	KeyStockIn   = "stock-in"
	KeyStockOut  = "stock-out"
	KeyStockView = "stock-view"
	KeySummary   = "summary"
	KeyBatches   = "batches"
	KeyUsers     = "users"
	KeyHelp      = "help"
)

var Items = []Item{
	{Key: KeyStockIn, Label: "Stock In", Href: "/tasker/stock-in"},
	{Key: KeyStockOut, Label: "Stock Out", Href: "/tasker/stock-out"},
	{Key: KeyStockView, Label: "Stock View", Href: "/tasker/stock"},
	{Key: KeySummary, Label: "Summary", Href: "/tasker/stock/summary"},
	{Key: KeyBatches, Label: "Batches", Href: "/tasker/batches"},
	{Key: KeyUsers, Label: "Admin Users", Href: "/tasker/admin/users", AdminOnly: true},
	{Key: KeyHelp, Label: "Help", Href: "/tasker/help"},
}

// DrawerData is shared with page renderers.
type DrawerData struct {
	Active string
	Role   string
}

// VisibleItems filters Items for role.
func VisibleItems(role string) []Item {
	out := make([]Item, 0, len(Items))
	for _, it := range Items {
		if it.AdminOnly && role != "admin" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// RenderDrawer renders the menu button, side drawer and overlay.
func RenderDrawer(d DrawerData) string {
	var b strings.Builder
	b.WriteString(`<header class="topbar"><button type="button" id="menu-btn" class="menu-btn" aria-label="Open menu">&#9776;</button><span class="brand">Scan Station</span></header>`)
	b.WriteString(`<div id="overlay" class="overlay"></div>`)
	b.WriteString(`<nav id="drawer" class="drawer"><button type="button" id="close-btn" class="close-btn" aria-label="Close menu">&times;</button><ul>`)
	for _, it := range VisibleItems(d.Role) {
		class := ""
		if it.Key == d.Active {
			class = ` class="current"`
		}
		fmt.Fprintf(&b, `<li%s><a href="%s">%s</a></li>`, class, html.EscapeString(it.Href), html.EscapeString(it.Label))
	}
	b.WriteString(`</ul></nav>`)
	b.WriteString(drawerScript)
	return b.String()
}

const drawerScript = `<script>
(function () {
  var drawer = document.getElementById("drawer");
  var overlay = document.getElementById("overlay");
  function open() { drawer.classList.add("active"); overlay.classList.add("active"); }
  function close() { drawer.classList.remove("active"); overlay.classList.remove("active"); }
  document.getElementById("menu-btn").addEventListener("click", open);
  document.getElementById("close-btn").addEventListener("click", close);
  overlay.addEventListener("click", close);
})();
</script>`
