package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
)

const cardColumns = `c.id, c.section_slug, c.title, c.href, c.external, c.icon,
	c.status, c.metric, c.trend, c.description, c.sort_order`

// CardsBySection returns every card grouped by section slug, each slice
// ordered by sort_order then id.
func (r *DashboardRepository) CardsBySection() (map[string][]models.Card, error) {
	rows, err := r.db.Query(`
		SELECT ` + cardColumns + `
		FROM cards c
		ORDER BY c.section_slug ASC, c.sort_order ASC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("cards by section: %w", err)
	}
	defer rows.Close()

	bySection := make(map[string][]models.Card)
	for rows.Next() {
		c, err := scanCard(rows, false)
		if err != nil {
			return nil, err
		}
		bySection[c.SectionSlug] = append(bySection[c.SectionSlug], c)
	}
	return bySection, rows.Err()
}

// CardsForSection returns the cards of one section with group info joined in.
func (r *DashboardRepository) CardsForSection(sectionSlug string) ([]models.Card, error) {
	rows, err := r.db.Query(`
		SELECT `+cardColumns+`,
			COALESCE(g.slug, 'geral') AS group_slug,
			COALESCE(g.label, 'Geral') AS group_label,
			COALESCE(s.label, c.section_slug) AS section_label
		FROM cards c
		LEFT JOIN sections s ON s.slug = c.section_slug
		LEFT JOIN groups g ON g.id = s.group_id
		WHERE c.section_slug = ?
		ORDER BY c.sort_order ASC, c.id ASC`, sectionSlug)
	if err != nil {
		return nil, fmt.Errorf("cards for section %s: %w", sectionSlug, err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// ListAllCards returns every card joined with its group and section labels,
// in public display order.
func (r *DashboardRepository) ListAllCards() ([]models.Card, error) {
	rows, err := r.db.Query(`
		SELECT ` + cardColumns + `,
			COALESCE(g.slug, 'geral') AS group_slug,
			COALESCE(g.label, 'Geral') AS group_label,
			COALESCE(s.label, c.section_slug) AS section_label
		FROM cards c
		LEFT JOIN sections s ON s.slug = c.section_slug
		LEFT JOIN groups g ON g.id = s.group_id
		ORDER BY g.sort_order ASC, g.label ASC, c.section_slug ASC, c.sort_order ASC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all cards: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// CreateCard inserts a card after resolving its effective section slug and
// normalizing blank fields to their defaults.
func (r *DashboardRepository) CreateCard(in models.CardInput) error {
	return createCard(r.db, in)
}

func createCard(q dbtx, in models.CardInput) error {
	sectionSlug, err := resolveCardSection(q, in)
	if err != nil {
		return err
	}

	_, err = q.Exec(`
		INSERT INTO cards (section_slug, title, href, external, icon, status, metric, trend, description, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sectionSlug, in.Title, defaultString(in.Href, "#"), boolToInt(in.External),
		normalizeIcon(in.Icon), defaultString(in.Status, "Interno"),
		in.Metric, in.Trend, in.Description, in.Order,
	)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// UpdateCard rewrites every field of an existing card.
func (r *DashboardRepository) UpdateCard(id int64, in models.CardInput) error {
	sectionSlug, err := resolveCardSection(r.db, in)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE cards SET section_slug = ?, title = ?, href = ?, external = ?,
			icon = ?, status = ?, metric = ?, trend = ?, description = ?, sort_order = ?
		WHERE id = ?`,
		sectionSlug, in.Title, defaultString(in.Href, "#"), boolToInt(in.External),
		normalizeIcon(in.Icon), defaultString(in.Status, "Interno"),
		in.Metric, in.Trend, in.Description, in.Order, id,
	)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: card %d", ErrNotFound, id)
	}
	return nil
}

// DeleteCard removes a card unconditionally.
func (r *DashboardRepository) DeleteCard(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// resolveCardSection picks the effective section slug (explicit subgroup slug
// first, then section slug, then the default) and verifies the section is
// live before any write.
func resolveCardSection(q dbtx, in models.CardInput) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(in.SubgroupSlug))
	if slug == "" {
		slug = strings.ToLower(strings.TrimSpace(in.SectionSlug))
	}
	if slug == "" {
		slug = DefaultSectionSlug
	}

	var exists int
	err := q.QueryRow(`SELECT COUNT(*) FROM sections WHERE slug = ?`, slug).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check section %s: %w", slug, err)
	}
	if exists == 0 {
		return "", fmt.Errorf("%w: section %s does not exist", ErrInvalidArgument, slug)
	}
	return slug, nil
}

func collectCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows, true)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func scanCard(rows *sql.Rows, joined bool) (models.Card, error) {
	var c models.Card
	var external int

	dest := []any{&c.ID, &c.SectionSlug, &c.Title, &c.Href, &external, &c.Icon,
		&c.Status, &c.Metric, &c.Trend, &c.Description, &c.Order}
	if joined {
		dest = append(dest, &c.GroupSlug, &c.GroupLabel, &c.SectionLabel)
	}
	if err := rows.Scan(dest...); err != nil {
		return models.Card{}, fmt.Errorf("scan card: %w", err)
	}

	c.External = external == 1
	c.Icon = normalizeIcon(c.Icon)
	return c, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
