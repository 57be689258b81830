package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/luciolemos/itapiru-srv798468/internal/middleware"
	"github.com/luciolemos/itapiru-srv798468/internal/models"
	"github.com/luciolemos/itapiru-srv798468/internal/repository"
	"github.com/luciolemos/itapiru-srv798468/templates"
)

const defaultAvatar = "face6_620_620.png"

var allowedAvatars = []string{
	"face1_620_620.png",
	"face2_620_620.png",
	"face3_620_620.png",
	"face4_620_620.png",
	"face5_620_620.png",
	"face6_620_620.png",
}

type AdminHandler struct {
	repo      *repository.DashboardRepository
	jwtSecret string
}

func NewAdminHandler(repo *repository.DashboardRepository, jwtSecret string) *AdminHandler {
	return &AdminHandler{repo: repo, jwtSecret: jwtSecret}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
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
	cards, err := h.repo.ListAllCards()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := templates.AdminData{
		Meta:      h.repo.Meta(),
		Nav:       h.nav(w, r),
		Flash:     pullFlash(w, r),
		Groups:    groups,
		Sections:  sections,
		Cards:     cards,
		CSRFToken: middleware.EnsureCSRF(w, r),
	}
	templates.Render(w, "admin.html", data)
}

func (h *AdminHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		label := r.FormValue("label")
		slug := r.FormValue("slug")
		if strings.TrimSpace(slug) == "" {
			slug = label
		}
		if err := h.repo.CreateGroup(slug, label, formInt(r, "order")); err != nil {
			return "", err
		}
		return "Grupo criado.", nil
	})
}

func (h *AdminHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		out, err := h.repo.UpdateGroup(
			r.FormValue("original_slug"),
			r.FormValue("slug"),
			r.FormValue("label"),
			formInt(r, "order"),
		)
		if err != nil {
			return "", err
		}
		if out.Merged {
			return "Grupos mesclados.", nil
		}
		return "Grupo atualizado.", nil
	})
}

func (h *AdminHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		if _, err := h.repo.DeleteGroup(r.FormValue("slug")); err != nil {
			return "", err
		}
		return "Grupo excluído.", nil
	})
}

func (h *AdminHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		err := h.repo.UpsertSection(
			r.FormValue("slug"),
			r.FormValue("label"),
			r.FormValue("description"),
			r.FormValue("group"),
			formInt(r, "order"),
		)
		if err != nil {
			return "", err
		}
		return "Subgrupo salvo.", nil
	})
}

func (h *AdminHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		err := h.repo.RenameSection(
			r.FormValue("original_slug"),
			r.FormValue("slug"),
			r.FormValue("label"),
			r.FormValue("description"),
			r.FormValue("group"),
			formInt(r, "order"),
		)
		if err != nil {
			return "", err
		}
		return "Subgrupo atualizado.", nil
	})
}

func (h *AdminHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		if err := h.repo.DeleteSection(r.FormValue("slug")); err != nil {
			return "", err
		}
		return "Subgrupo excluído.", nil
	})
}

func (h *AdminHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		if err := h.repo.CreateCard(cardInputFromForm(r)); err != nil {
			return "", err
		}
		return "Card criado.", nil
	})
}

func (h *AdminHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			return "", repository.ErrInvalidArgument
		}
		if err := h.repo.UpdateCard(id, cardInputFromForm(r)); err != nil {
			return "", err
		}
		return "Card atualizado.", nil
	})
}

func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() (string, error) {
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			return "", repository.ErrInvalidArgument
		}
		if err := h.repo.DeleteCard(id); err != nil {
			return "", err
		}
		return "Card excluído.", nil
	})
}

func (h *AdminHandler) Account(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetAdminUsername(r.Context())
	meta := h.repo.Meta()

	data := templates.AccountData{
		Meta:      meta,
		Nav:       h.nav(w, r),
		Flash:     pullFlash(w, r),
		Username:  username,
		Avatar:    h.repo.ConfigValue(avatarKey(username), defaultAvatar),
		Avatars:   avatarOptions(),
		Title:     meta.Title,
		Subtitle:  meta.Subtitle,
		CSRFToken: middleware.EnsureCSRF(w, r),
	}
	templates.Render(w, "account.html", data)
}

func (h *AdminHandler) AccountUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if !middleware.ValidCSRF(r) {
		setFlash(w, "Sessão expirada. Atualize a página e tente novamente.")
		http.Redirect(w, r, "/itapiru/admin/account", http.StatusSeeOther)
		return
	}

	current := middleware.GetAdminUsername(r.Context())

	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		if err := h.repo.SetConfigValue("title", title); err != nil {
			h.accountError(w, r, err)
			return
		}
	}
	if subtitle := strings.TrimSpace(r.FormValue("subtitle")); subtitle != "" {
		if err := h.repo.SetConfigValue("subtitle", subtitle); err != nil {
			h.accountError(w, r, err)
			return
		}
	}

	if avatar := normalizeAvatar(r.FormValue("avatar")); avatar != "" {
		if err := h.repo.SetConfigValue(avatarKey(current), avatar); err != nil {
			h.accountError(w, r, err)
			return
		}
	}

	newUsername := strings.TrimSpace(r.FormValue("username"))
	newPassword := r.FormValue("password")
	if (newUsername != "" && newUsername != current) || newPassword != "" {
		if err := h.repo.UpdateAdmin(current, newUsername, newPassword); err != nil {
			h.accountError(w, r, err)
			return
		}
		if newUsername != "" && newUsername != current {
			// Move the avatar preference to the new username key and refresh
			// the session so the admin stays logged in.
			avatar := h.repo.ConfigValue(avatarKey(current), "")
			if avatar != "" {
				if err := h.repo.SetConfigValue(avatarKey(newUsername), avatar); err == nil {
					h.repo.DeleteConfigValue(avatarKey(current))
				}
			}
			if err := setAdminToken(w, newUsername, h.jwtSecret); err != nil {
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
		}
	}

	setFlash(w, "Conta atualizada.")
	http.Redirect(w, r, "/itapiru/admin/account", http.StatusSeeOther)
}

func (h *AdminHandler) accountError(w http.ResponseWriter, r *http.Request, err error) {
	setFlash(w, flashForError(err))
	http.Redirect(w, r, "/itapiru/admin/account", http.StatusSeeOther)
}

// mutate wraps the CSRF check, the repository call and the flash-then-redirect
// dance shared by every admin POST endpoint.
func (h *AdminHandler) mutate(w http.ResponseWriter, r *http.Request, fn func() (string, error)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if !middleware.ValidCSRF(r) {
		setFlash(w, "Sessão expirada. Atualize a página e tente novamente.")
		http.Redirect(w, r, "/itapiru/admin", http.StatusSeeOther)
		return
	}

	message, err := fn()
	if err != nil {
		message = flashForError(err)
	}
	setFlash(w, message)
	http.Redirect(w, r, "/itapiru/admin", http.StatusSeeOther)
}

func (h *AdminHandler) nav(w http.ResponseWriter, r *http.Request) templates.Nav {
	username := middleware.GetAdminUsername(r.Context())
	return templates.Nav{
		IsAdmin:   true,
		AdminUser: username,
		CSRFToken: middleware.EnsureCSRF(w, r),
	}
}

func flashForError(err error) string {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return "Operação bloqueada: registro em uso ou duplicado."
	case errors.Is(err, repository.ErrNotFound):
		return "Registro não encontrado."
	case errors.Is(err, repository.ErrInvalidArgument):
		return "Dados inválidos. Verifique os campos e tente novamente."
	default:
		return "Erro ao salvar. Tente novamente."
	}
}

func cardInputFromForm(r *http.Request) models.CardInput {
	return models.CardInput{
		SectionSlug:  r.FormValue("section_slug"),
		SubgroupSlug: r.FormValue("subgroup_slug"),
		Title:        r.FormValue("title"),
		Href:         normalizeHref(r.FormValue("href")),
		External:     r.FormValue("external") == "1" || r.FormValue("external") == "on",
		Icon:         r.FormValue("icon"),
		Status:       r.FormValue("status"),
		Metric:       r.FormValue("metric"),
		Trend:        r.FormValue("trend"),
		Description:  r.FormValue("description"),
		Order:        formInt(r, "order"),
	}
}

// normalizeHref keeps relative paths and absolute http(s) URLs; anything else
// collapses to "#".
func normalizeHref(raw string) string {
	href := strings.TrimSpace(raw)
	if href == "" {
		return "#"
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return "#"
}

func avatarOptions() []templates.AvatarOption {
	opts := make([]templates.AvatarOption, 0, len(allowedAvatars))
	for i, v := range allowedAvatars {
		opts = append(opts, templates.AvatarOption{Value: v, Label: fmt.Sprintf("Avatar %d", i+1)})
	}
	return opts
}

func normalizeAvatar(value string) string {
	v := strings.TrimSpace(value)
	for _, allowed := range allowedAvatars {
		if v == allowed {
			return v
		}
	}
	return ""
}

func avatarKey(username string) string {
	normalized := repository.NormalizeSlug(username, "default")
	return "admin.avatar." + normalized
}

func formInt(r *http.Request, field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil {
		return 0
	}
	return n
}
