package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminUserKey contextKey = "adminUser"

// TokenCookie carries the signed admin session token.
const TokenCookie = "admin_token"

// RequireAdmin guards the admin area. It accepts the session cookie or an
// Authorization bearer token and stores the admin username in the context.
func RequireAdmin(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ""

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				tokenStr = strings.TrimPrefix(auth, "Bearer ")
			}
			if tokenStr == "" {
				if c, err := r.Cookie(TokenCookie); err == nil {
					tokenStr = c.Value
				}
			}
			if tokenStr == "" {
				redirectToLogin(w, r)
				return
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				// Clear invalid cookie
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				redirectToLogin(w, r)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				redirectToLogin(w, r)
				return
			}
			username, _ := claims["username"].(string)

			ctx := context.WithValue(r.Context(), adminUserKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromRequest extracts the admin username from a valid session cookie
// without redirecting. Public pages use it to decide what the navbar shows.
func AdminFromRequest(r *http.Request, jwtSecret string) string {
	c, err := r.Cookie(TokenCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	token, err := jwt.Parse(c.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	username, _ := claims["username"].(string)
	return username
}

// GetAdminUsername returns the authenticated admin username, or "".
func GetAdminUsername(ctx context.Context) string {
	if name, ok := ctx.Value(adminUserKey).(string); ok {
		return name
	}
	return ""
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "text/html") || !strings.Contains(accept, "application/json") {
		http.Redirect(w, r, "/itapiru/login", http.StatusSeeOther)
		return
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
