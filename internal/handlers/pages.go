package handlers

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luciolemos/itapiru-srv798468/internal/middleware"
	"github.com/luciolemos/itapiru-srv798468/internal/models"
	"github.com/luciolemos/itapiru-srv798468/internal/repository"
	"github.com/luciolemos/itapiru-srv798468/templates"

	"github.com/go-chi/chi/v5"
)

type PageHandler struct {
	repo       *repository.DashboardRepository
	jwtSecret  string
	contactLog string
}

func NewPageHandler(repo *repository.DashboardRepository, jwtSecret, contactLog string) *PageHandler {
	return &PageHandler{repo: repo, jwtSecret: jwtSecret, contactLog: contactLog}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	groups, err := h.repo.ListGroups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sections, err := h.repo.ListSections()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cards, err := h.repo.CardsBySection()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := templates.DashboardData{
		Meta:   h.repo.Meta(),
		Nav:    h.nav(w, r),
		Groups: buildGroupedSections(groups, sections),
		Cards:  cards,
	}
	templates.Render(w, "dashboard.html", data)
}

func (h *PageHandler) Section(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "section")

	sections, err := h.repo.SectionsBySlug()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	section, ok := sections[slug]
	if !ok {
		http.Redirect(w, r, "/itapiru", http.StatusSeeOther)
		return
	}

	cards, err := h.repo.CardsForSection(slug)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := templates.SectionData{
		Meta:    h.repo.Meta(),
		Nav:     h.nav(w, r),
		Section: section,
		Cards:   cards,
	}
	templates.Render(w, "section.html", data)
}

func (h *PageHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	data := templates.ContactData{
		Meta: h.repo.Meta(),
		Nav:  h.nav(w, r),
	}
	templates.Render(w, "contact.html", data)
}

func (h *PageHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	data := templates.ContactData{
		Meta:    h.repo.Meta(),
		Nav:     h.nav(w, r),
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}

	if !middleware.ValidCSRF(r) {
		data.Errors = append(data.Errors, "Sessão expirada. Atualize a página e tente novamente.")
	}
	if data.Name == "" {
		data.Errors = append(data.Errors, "Informe seu nome.")
	}
	if data.Email == "" || !strings.Contains(data.Email, "@") {
		data.Errors = append(data.Errors, "Informe um e-mail válido.")
	}
	if data.Message == "" {
		data.Errors = append(data.Errors, "Escreva uma mensagem.")
	}

	if len(data.Errors) == 0 {
		if err := h.appendContactMessage(data.Name, data.Email, data.Message); err != nil {
			log.Printf("contact log: %v", err)
			data.Errors = append(data.Errors, "Não foi possível registrar a mensagem. Tente novamente.")
		} else {
			data.Sent = true
			data.Name, data.Email, data.Message = "", "", ""
		}
	}

	templates.Render(w, "contact.html", data)
}

// appendContactMessage writes one line per message to the contact log file.
// The contact form never touches the repository.
func (h *PageHandler) appendContactMessage(name, email, message string) error {
	if err := os.MkdirAll(filepath.Dir(h.contactLog), 0o775); err != nil {
		return err
	}
	f, err := os.OpenFile(h.contactLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s <%s>: %s\n",
		time.Now().Format(time.RFC3339), name, email,
		strings.ReplaceAll(message, "\n", " "))
	_, err = f.WriteString(line)
	return err
}

func (h *PageHandler) nav(w http.ResponseWriter, r *http.Request) templates.Nav {
	username := middleware.AdminFromRequest(r, h.jwtSecret)
	return templates.Nav{
		IsAdmin:   username != "",
		AdminUser: username,
		CSRFToken: middleware.EnsureCSRF(w, r),
	}
}

// buildGroupedSections attaches sections to their groups preserving display
// order, dropping groups with no sections. Sections whose group vanished
// collect under a trailing synthetic group so they stay reachable.
func buildGroupedSections(groups []models.Group, sections []models.Section) []templates.GroupView {
	views := make([]templates.GroupView, 0, len(groups))
	index := make(map[string]int, len(groups))
	for _, g := range groups {
		index[g.Slug] = len(views)
		views = append(views, templates.GroupView{Group: g})
	}

	var orphans []models.Section
	for _, s := range sections {
		if i, ok := index[s.GroupSlug]; ok {
			views[i].Sections = append(views[i].Sections, s)
		} else {
			orphans = append(orphans, s)
		}
	}
	if len(orphans) > 0 {
		views = append(views, templates.GroupView{
			Group:    models.Group{Slug: repository.DefaultSectionSlug, Label: repository.DefaultGroupLabel},
			Sections: orphans,
		})
	}

	filtered := views[:0]
	for _, v := range views {
		if len(v.Sections) > 0 {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
