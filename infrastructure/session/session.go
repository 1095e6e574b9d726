package session

import (
	"net/http"
	"time"
)

// CookieName holds the id of the kiosk scan session a browser is showing.
const CookieName = "X-Scan-Session"

// IdleTimeout is how long an untouched scan session is kept.
const IdleTimeout = 12 * time.Hour

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// ScanSessionCookie is the cookie set when a page opens a new session.
func ScanSessionCookie(id string) *http.Cookie {
	return SessionCookie(id, int(IdleTimeout/time.Second))
}

// ScanSessionID reads the session id cookie, returning "" when absent.
func ScanSessionID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
