package session

import (
	"net/http"
	"strings"
)

// Cookie helpers centralize session cookie behavior. The cookie value is the
// signed wire form of a Reference; these helpers only move it in and out of
// HTTP, never interpret it.

// ReadCookie returns the trimmed session cookie value when present.
func ReadCookie(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WriteCookie sets the session cookie for the current response.
func WriteCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    strings.TrimSpace(value),
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie for the current response.
func ClearCookie(w http.ResponseWriter, r *http.Request, name string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func isHTTPS(r *http.Request) bool {
	return r != nil && r.TLS != nil
}
