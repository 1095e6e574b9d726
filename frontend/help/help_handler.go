package help

import (
	"net/http"

	"scanstation/infrastructure/inventory"
)

// PageData decides which help sections are shown.
type PageData struct {
	IsAdmin bool
}

func HelpPageQueryHandler(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(HelpPage(PageData{IsAdmin: role == inventory.RoleAdmin}, role)))
	}
}
