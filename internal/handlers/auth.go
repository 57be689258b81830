package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/luciolemos/itapiru-srv798468/internal/middleware"
	"github.com/luciolemos/itapiru-srv798468/internal/repository"
	"github.com/luciolemos/itapiru-srv798468/internal/throttle"
	"github.com/luciolemos/itapiru-srv798468/templates"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	repo      *repository.DashboardRepository
	limiter   *throttle.Limiter
	jwtSecret string
}

func NewAuthHandler(repo *repository.DashboardRepository, limiter *throttle.Limiter, jwtSecret string) *AuthHandler {
	return &AuthHandler{repo: repo, limiter: limiter, jwtSecret: jwtSecret}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.AdminFromRequest(r, h.jwtSecret) != "" {
		http.Redirect(w, r, "/itapiru/admin", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if !middleware.ValidCSRF(r) {
		h.renderLogin(w, r, "Sessão expirada. Atualize a página e tente novamente.")
		return
	}

	key := clientIP(r)
	if allowed, wait := h.limiter.Allow(key); !allowed {
		h.renderLogin(w, r, fmt.Sprintf("Muitas tentativas. Tente novamente em %d segundos.", int(wait.Seconds())))
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if h.repo.VerifyAdmin(username, password) {
		h.limiter.Reset(key)
		if err := setAdminToken(w, username, h.jwtSecret); err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/itapiru/admin", http.StatusSeeOther)
		return
	}

	if locked, wait := h.limiter.Fail(key); locked {
		h.renderLogin(w, r, fmt.Sprintf("Muitas tentativas. Acesso bloqueado por %d minutos.", int(wait.Minutes())))
		return
	}
	h.renderLogin(w, r, "Usuário ou senha inválidos.")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !middleware.ValidCSRF(r) {
		http.Redirect(w, r, "/itapiru/admin", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/itapiru/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, errMessage string) {
	data := templates.LoginData{
		Meta:      h.repo.Meta(),
		CSRFToken: middleware.EnsureCSRF(w, r),
		Error:     errMessage,
	}
	templates.Render(w, "login.html", data)
}

func setAdminToken(w http.ResponseWriter, username, jwtSecret string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   86400, // 24 hours
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
