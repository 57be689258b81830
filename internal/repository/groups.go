package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
)

// GroupUpdate reports how UpdateGroup resolved: a plain rename, or a merge
// into an existing group that already owned the target slug.
type GroupUpdate struct {
	Merged   bool
	TargetID int64
}

func (r *DashboardRepository) ListGroups() ([]models.Group, error) {
	rows, err := r.db.Query(`
		SELECT g.id, g.slug, g.label, g.sort_order, COUNT(s.slug) AS subgroups_count
		FROM groups g
		LEFT JOIN sections s ON s.group_id = g.id
		GROUP BY g.id, g.slug, g.label, g.sort_order
		ORDER BY g.sort_order ASC, g.label ASC, g.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Label, &g.Order, &g.SubgroupCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *DashboardRepository) GroupsBySlug() (map[string]models.Group, error) {
	groups, err := r.ListGroups()
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Group, len(groups))
	for _, g := range groups {
		bySlug[g.Slug] = g
	}
	return bySlug, nil
}

func (r *DashboardRepository) CountSectionsForGroup(groupSlug string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM sections s
		INNER JOIN groups g ON g.id = s.group_id
		WHERE g.slug = ?`, groupSlug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sections for group %s: %w", groupSlug, err)
	}
	return count, nil
}

// CreateGroup inserts a group. The label defaults to the slug when blank.
// A duplicate slug or case-insensitive duplicate label yields ErrConflict.
func (r *DashboardRepository) CreateGroup(slug, label string, order int) error {
	normalized := NormalizeSlug(slug, "")
	if normalized == "" {
		return fmt.Errorf("%w: blank group slug", ErrInvalidArgument)
	}

	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		trimmed = normalized
	}

	_, err := r.db.Exec(
		`INSERT INTO groups (slug, label, sort_order) VALUES (?, ?, ?)`,
		normalized, trimmed, order,
	)
	if err != nil {
		return mapConstraint(err)
	}

	return syncSectionGroupLabels(r.db)
}

// UpdateGroup renames oldSlug to newSlug. When newSlug already names a
// different group the two merge: sections under the old group repoint to the
// target, the target takes the new label and order, and the old row is
// deleted. The whole operation is transactional.
func (r *DashboardRepository) UpdateGroup(oldSlug, newSlug, label string, order int) (GroupUpdate, error) {
	normalizedOld := NormalizeSlug(oldSlug, "")
	normalizedNew := NormalizeSlug(newSlug, "")
	if normalizedOld == "" || normalizedNew == "" {
		return GroupUpdate{}, fmt.Errorf("%w: blank group slug", ErrInvalidArgument)
	}

	oldID, err := groupIDBySlug(r.db, normalizedOld)
	if err != nil {
		return GroupUpdate{}, err
	}
	if oldID == 0 {
		return GroupUpdate{}, fmt.Errorf("%w: group %s", ErrNotFound, normalizedOld)
	}

	targetID, err := groupIDBySlug(r.db, normalizedNew)
	if err != nil {
		return GroupUpdate{}, err
	}

	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		trimmed = normalizedNew
	}

	out := GroupUpdate{TargetID: oldID}
	err = r.inTx(func(tx *sql.Tx) error {
		if targetID > 0 && targetID != oldID {
			// Slug collision: merge into the existing group instead of
			// surfacing a uniqueness error.
			if _, err := tx.Exec(`UPDATE sections SET group_id = ? WHERE group_id = ?`, targetID, oldID); err != nil {
				return fmt.Errorf("repoint sections: %w", err)
			}
			if _, err := tx.Exec(`UPDATE groups SET label = ?, sort_order = ? WHERE id = ?`, trimmed, order, targetID); err != nil {
				return mapConstraint(err)
			}
			if _, err := tx.Exec(`DELETE FROM groups WHERE id = ?`, oldID); err != nil {
				return fmt.Errorf("delete merged group: %w", err)
			}
			out = GroupUpdate{Merged: true, TargetID: targetID}
		} else {
			if _, err := tx.Exec(`UPDATE groups SET slug = ?, label = ?, sort_order = ? WHERE id = ?`,
				normalizedNew, trimmed, order, oldID); err != nil {
				return mapConstraint(err)
			}
		}
		return syncSectionGroupLabels(tx)
	})
	if err != nil {
		return GroupUpdate{}, err
	}
	return out, nil
}

// DeleteGroup removes a childless group and returns the number of rows
// removed. A group with live sections yields ErrConflict.
func (r *DashboardRepository) DeleteGroup(slug string) (int64, error) {
	count, err := r.CountSectionsForGroup(slug)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, fmt.Errorf("%w: group %s has %d sections", ErrConflict, slug, count)
	}

	res, err := r.db.Exec(`DELETE FROM groups WHERE slug = ?`, slug)
	if err != nil {
		return 0, fmt.Errorf("delete group: %w", err)
	}
	return res.RowsAffected()
}

func groupIDBySlug(q dbtx, slug string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM groups WHERE slug = ? LIMIT 1`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("group id by slug: %w", err)
	}
	return id, nil
}

func groupIDByLabel(q dbtx, label string) (int64, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return 0, nil
	}
	var id int64
	err := q.QueryRow(`SELECT id FROM groups WHERE TRIM(label) = ? COLLATE NOCASE LIMIT 1`, trimmed).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("group id by label: %w", err)
	}
	return id, nil
}

func groupLabelByID(q dbtx, id int64) (string, error) {
	if id <= 0 {
		return DefaultGroupLabel, nil
	}
	var label string
	err := q.QueryRow(`SELECT label FROM groups WHERE id = ? LIMIT 1`, id).Scan(&label)
	if err == sql.ErrNoRows {
		return DefaultGroupLabel, nil
	}
	if err != nil {
		return "", fmt.Errorf("group label by id: %w", err)
	}
	if strings.TrimSpace(label) == "" {
		return DefaultGroupLabel, nil
	}
	return strings.TrimSpace(label), nil
}

func getOrCreateGroupID(q dbtx, slug, label string, order int) (int64, error) {
	id, err := groupIDBySlug(q, slug)
	if err != nil {
		return 0, err
	}
	if id > 0 {
		return id, nil
	}

	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		trimmed = DefaultGroupLabel
	}
	if _, err := q.Exec(`INSERT INTO groups (slug, label, sort_order) VALUES (?, ?, ?)`, slug, trimmed, order); err != nil {
		return 0, mapConstraint(err)
	}
	return groupIDBySlug(q, slug)
}

// syncSectionGroupLabels recomputes the denormalized group_label cache on
// sections from the groups table. Sections without a live group fall back to
// the default label.
func syncSectionGroupLabels(q dbtx) error {
	_, err := q.Exec(`
		UPDATE sections SET group_label = COALESCE(
			(SELECT g.label FROM groups g WHERE g.id = sections.group_id),
			'Geral'
		)`)
	if err != nil {
		return fmt.Errorf("sync section group labels: %w", err)
	}
	return nil
}
