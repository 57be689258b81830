package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
)

// ListSections returns every section ordered by owning group (sort_order,
// label) then by the section's own sort_order and slug, with group label and
// slug joined in.
func (r *DashboardRepository) ListSections() ([]models.Section, error) {
	rows, err := r.db.Query(`
		SELECT s.slug, s.label, s.description, s.sort_order,
			COALESCE(g.label, 'Geral') AS group_label,
			COALESCE(g.slug, 'geral') AS group_slug
		FROM sections s
		LEFT JOIN groups g ON g.id = s.group_id
		ORDER BY g.sort_order ASC, g.label ASC, s.sort_order ASC, s.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.Slug, &s.Label, &s.Description, &s.Order, &s.GroupLabel, &s.GroupSlug); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *DashboardRepository) SectionsBySlug() (map[string]models.Section, error) {
	sections, err := r.ListSections()
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Section, len(sections))
	for _, s := range sections {
		bySlug[s.Slug] = s
	}
	return bySlug, nil
}

func (r *DashboardRepository) CountCardsForSection(sectionSlug string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM cards WHERE section_slug = ?`, sectionSlug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cards for section %s: %w", sectionSlug, err)
	}
	return count, nil
}

// UpsertSection inserts or updates a section by slug. The group reference is
// resolved by slug first, then by label; an unresolvable reference yields
// ErrInvalidArgument. The denormalized group label is always refreshed.
func (r *DashboardRepository) UpsertSection(slug, label, description, groupRef string, order int) error {
	return upsertSection(r.db, slug, label, description, groupRef, order)
}

func upsertSection(q dbtx, slug, label, description, groupRef string, order int) error {
	normalized := NormalizeSlug(slug, "")
	if normalized == "" {
		return fmt.Errorf("%w: blank section slug", ErrInvalidArgument)
	}

	groupID, err := resolveGroupRef(q, groupRef)
	if err != nil {
		return err
	}

	groupLabel, err := groupLabelByID(q, groupID)
	if err != nil {
		return err
	}

	_, err = q.Exec(`
		INSERT INTO sections (slug, label, description, group_id, group_label, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			label = excluded.label,
			description = excluded.description,
			group_id = excluded.group_id,
			group_label = excluded.group_label,
			sort_order = excluded.sort_order`,
		normalized, label, description, groupID, groupLabel, order,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

// resolveGroupRef turns a group slug or label into a group id.
func resolveGroupRef(q dbtx, groupRef string) (int64, error) {
	raw := strings.TrimSpace(groupRef)

	var groupID int64
	if slug := NormalizeSlug(groupRef, ""); slug != "" {
		id, err := groupIDBySlug(q, slug)
		if err != nil {
			return 0, err
		}
		groupID = id
	}
	if groupID == 0 && raw != "" {
		id, err := groupIDByLabel(q, raw)
		if err != nil {
			return 0, err
		}
		groupID = id
	}
	if groupID == 0 {
		return 0, fmt.Errorf("%w: group reference %q does not resolve", ErrInvalidArgument, raw)
	}
	return groupID, nil
}

// RenameSection moves a section from oldSlug to newSlug, repointing every
// card along the way and removing the old row, all in one transaction. Equal
// slugs degrade to a plain upsert.
func (r *DashboardRepository) RenameSection(oldSlug, newSlug, label, description, groupRef string, order int) error {
	normalizedOld := NormalizeSlug(oldSlug, "")
	normalizedNew := NormalizeSlug(newSlug, "")
	if normalizedOld == "" {
		return fmt.Errorf("%w: blank section slug", ErrInvalidArgument)
	}
	if normalizedOld == normalizedNew {
		return r.UpsertSection(newSlug, label, description, groupRef, order)
	}

	return r.inTx(func(tx *sql.Tx) error {
		if err := upsertSection(tx, newSlug, label, description, groupRef, order); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE cards SET section_slug = ? WHERE section_slug = ?`, normalizedNew, normalizedOld); err != nil {
			return fmt.Errorf("repoint cards: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM sections WHERE slug = ?`, normalizedOld); err != nil {
			return fmt.Errorf("delete renamed section: %w", err)
		}
		return nil
	})
}

// DeleteSection removes a section without cards. A section with live cards
// yields ErrConflict.
func (r *DashboardRepository) DeleteSection(slug string) error {
	count, err := r.CountCardsForSection(slug)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: section %s has %d cards", ErrConflict, slug, count)
	}

	if _, err := r.db.Exec(`DELETE FROM sections WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
