// Package templates renders the server-side HTML pages from embedded files.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

// Render writes the named page template with data.
func Render(w io.Writer, name string, data any) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Nav carries the per-request auth context shared by every page.
type Nav struct {
	IsAdmin   bool
	AdminUser string
	CSRFToken string
}

// GroupView is a group with its sections, in display order.
type GroupView struct {
	Group    models.Group
	Sections []models.Section
}

type DashboardData struct {
	Meta   models.Meta
	Nav    Nav
	Groups []GroupView
	Cards  map[string][]models.Card
}

type SectionData struct {
	Meta    models.Meta
	Nav     Nav
	Section models.Section
	Cards   []models.Card
}

type ContactData struct {
	Meta    models.Meta
	Nav     Nav
	Errors  []string
	Sent    bool
	Name    string
	Email   string
	Message string
}

type LoginData struct {
	Meta      models.Meta
	CSRFToken string
	Error     string
}

type AdminData struct {
	Meta      models.Meta
	Nav       Nav
	Flash     string
	Groups    []models.Group
	Sections  []models.Section
	Cards     []models.Card
	CSRFToken string
}

// AvatarOption is one selectable avatar preset.
type AvatarOption struct {
	Value string
	Label string
}

type AccountData struct {
	Meta      models.Meta
	Nav       Nav
	Flash     string
	Username  string
	Avatar    string
	Avatars   []AvatarOption
	Title     string
	Subtitle  string
	CSRFToken string
}
