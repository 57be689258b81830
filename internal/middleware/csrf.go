package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

const csrfCookie = "csrf_token"

// EnsureCSRF returns the request's CSRF token, minting a new one into a
// cookie when the browser has none yet. Forms echo the token back in the
// csrf_token field (double-submit).
func EnsureCSRF(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// ValidCSRF reports whether the posted csrf_token matches the cookie.
func ValidCSRF(r *http.Request) bool {
	c, err := r.Cookie(csrfCookie)
	if err != nil || c.Value == "" {
		return false
	}
	provided := r.FormValue("csrf_token")
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(provided)) == 1
}
