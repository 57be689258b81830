package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
	"github.com/luciolemos/itapiru-srv798468/internal/seed"
)

// bootstrap runs on every construction and is idempotent. Order matters:
// older databases gain the group columns before the dedup pass can rely on
// them, and seeding happens before the admin account so a failed seed leaves
// a visibly empty dashboard rather than a half-initialized one.
func (r *DashboardRepository) bootstrap(sd *seed.Seed, adminUser, adminPass string, freshDB bool) error {
	if err := r.ensureSectionGroupColumns(); err != nil {
		return err
	}
	if err := r.dedupeGroupLabels(); err != nil {
		return err
	}
	if err := r.seedIfEmpty(sd, freshDB); err != nil {
		return err
	}
	if err := r.ensureDefaultAdmin(adminUser, adminPass); err != nil {
		return err
	}
	return syncSectionGroupLabels(r.db)
}

// ensureSectionGroupColumns adds group_label/group_id to sections tables
// created by older schema versions, then backfills group_id by resolving (or
// creating) a group from each section's denormalized label.
func (r *DashboardRepository) ensureSectionGroupColumns() error {
	hasGroupLabel, hasGroupID, err := r.sectionColumnPresence()
	if err != nil {
		return err
	}

	if !hasGroupLabel {
		if _, err := r.db.Exec(`ALTER TABLE sections ADD COLUMN group_label TEXT NOT NULL DEFAULT 'Geral'`); err != nil {
			return fmt.Errorf("add group_label column: %w", err)
		}
	}
	if !hasGroupID {
		if _, err := r.db.Exec(`ALTER TABLE sections ADD COLUMN group_id INTEGER`); err != nil {
			return fmt.Errorf("add group_id column: %w", err)
		}
	}

	if _, err := r.db.Exec(`UPDATE sections SET group_label = 'Geral' WHERE TRIM(COALESCE(group_label, '')) = ''`); err != nil {
		return fmt.Errorf("default blank group labels: %w", err)
	}

	rows, err := r.db.Query(`SELECT slug, group_label FROM sections`)
	if err != nil {
		return fmt.Errorf("read sections for backfill: %w", err)
	}
	type sectionRef struct{ slug, groupLabel string }
	var refs []sectionRef
	for rows.Next() {
		var ref sectionRef
		if err := rows.Scan(&ref.slug, &ref.groupLabel); err != nil {
			rows.Close()
			return fmt.Errorf("scan section for backfill: %w", err)
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, ref := range refs {
		label := strings.TrimSpace(ref.groupLabel)
		if label == "" {
			label = DefaultGroupLabel
		}
		groupSlug := NormalizeSlug(label, DefaultSectionSlug)
		groupID, err := getOrCreateGroupID(r.db, groupSlug, label, 1)
		if err != nil {
			return err
		}
		if _, err := r.db.Exec(`UPDATE sections SET group_id = ? WHERE slug = ?`, groupID, ref.slug); err != nil {
			return fmt.Errorf("backfill section %s: %w", ref.slug, err)
		}
	}

	if _, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_sections_group_id ON sections(group_id)`); err != nil {
		return fmt.Errorf("ensure group index: %w", err)
	}
	return nil
}

func (r *DashboardRepository) sectionColumnPresence() (hasGroupLabel, hasGroupID bool, err error) {
	rows, err := r.db.Query(`PRAGMA table_info(sections)`)
	if err != nil {
		return false, false, fmt.Errorf("inspect sections table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, false, fmt.Errorf("scan column info: %w", err)
		}
		switch name {
		case "group_label":
			hasGroupLabel = true
		case "group_id":
			hasGroupID = true
		}
	}
	return hasGroupLabel, hasGroupID, rows.Err()
}

// dedupeGroupLabels collapses groups whose labels collide case-insensitively
// (older imports could create them): the group with the most sections wins,
// ties broken by lowest sort_order then lowest id. Afterwards the
// case-insensitive unique index on label is (re)established. Transactional.
func (r *DashboardRepository) dedupeGroupLabels() error {
	return r.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE groups SET label = TRIM(label)`); err != nil {
			return fmt.Errorf("trim group labels: %w", err)
		}
		if _, err := tx.Exec(`UPDATE groups SET label = slug WHERE TRIM(COALESCE(label, '')) = ''`); err != nil {
			return fmt.Errorf("default blank group labels: %w", err)
		}

		rows, err := tx.Query(`
			SELECT g.id, g.slug, g.label, g.sort_order, COUNT(s.slug) AS subgroups_count
			FROM groups g
			LEFT JOIN sections s ON s.group_id = g.id
			GROUP BY g.id, g.slug, g.label, g.sort_order
			ORDER BY g.id ASC`)
		if err != nil {
			return fmt.Errorf("read groups for dedup: %w", err)
		}

		byLabel := make(map[string][]models.Group)
		var order []string
		for rows.Next() {
			var g models.Group
			if err := rows.Scan(&g.ID, &g.Slug, &g.Label, &g.Order, &g.SubgroupCount); err != nil {
				rows.Close()
				return fmt.Errorf("scan group for dedup: %w", err)
			}
			key := strings.ToLower(strings.TrimSpace(g.Label))
			if key == "" {
				key = "__empty__"
			}
			if _, seen := byLabel[key]; !seen {
				order = append(order, key)
			}
			byLabel[key] = append(byLabel[key], g)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, key := range order {
			duplicates := byLabel[key]
			if len(duplicates) <= 1 {
				continue
			}

			sort.SliceStable(duplicates, func(i, j int) bool {
				a, b := duplicates[i], duplicates[j]
				if a.SubgroupCount != b.SubgroupCount {
					return a.SubgroupCount > b.SubgroupCount
				}
				if a.Order != b.Order {
					return a.Order < b.Order
				}
				return a.ID < b.ID
			})

			survivor := duplicates[0].ID
			for _, dup := range duplicates[1:] {
				if dup.ID == survivor {
					continue
				}
				if _, err := tx.Exec(`UPDATE sections SET group_id = ? WHERE group_id = ?`, survivor, dup.ID); err != nil {
					return fmt.Errorf("repoint sections from duplicate group: %w", err)
				}
				if _, err := tx.Exec(`DELETE FROM groups WHERE id = ?`, dup.ID); err != nil {
					return fmt.Errorf("delete duplicate group: %w", err)
				}
			}
		}

		if _, err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_groups_label_nocase ON groups(label COLLATE NOCASE)`); err != nil {
			return fmt.Errorf("ensure label index: %w", err)
		}
		return nil
	})
}

// seedIfEmpty populates groups, sections and cards from the static seed, but
// only when the database file is brand new and the sections table is empty.
func (r *DashboardRepository) seedIfEmpty(sd *seed.Seed, freshDB bool) error {
	if !freshDB || sd == nil {
		return nil
	}

	var sectionCount int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sections`).Scan(&sectionCount); err != nil {
		return fmt.Errorf("count sections: %w", err)
	}
	if sectionCount > 0 {
		return nil
	}

	return r.inTx(func(tx *sql.Tx) error {
		title := sd.Title
		if title == "" {
			title = defaultTitle
		}
		subtitle := sd.Subtitle
		if subtitle == "" {
			subtitle = defaultSubtitle
		}
		if err := setConfigValueTx(tx, "title", title); err != nil {
			return fmt.Errorf("seed title: %w", err)
		}
		if err := setConfigValueTx(tx, "subtitle", subtitle); err != nil {
			return fmt.Errorf("seed subtitle: %w", err)
		}

		order := 1
		for _, s := range sd.Sections {
			groupLabel := strings.TrimSpace(s.Group)
			if groupLabel == "" {
				groupLabel = DefaultGroupLabel
			}
			groupSlug := NormalizeSlug(groupLabel, DefaultSectionSlug)
			if _, err := getOrCreateGroupID(tx, groupSlug, groupLabel, order); err != nil {
				return err
			}

			label := s.Label
			if label == "" {
				label = s.Slug
			}
			if err := upsertSection(tx, s.Slug, label, s.Description, groupSlug, order); err != nil {
				return err
			}
			order++
		}

		for sectionSlug, cards := range sd.Cards {
			for _, c := range cards {
				in := models.CardInput{
					SectionSlug: sectionSlug,
					Title:       c.Title,
					Href:        c.Href,
					External:    c.External,
					Icon:        c.Icon,
					Status:      c.Status,
					Metric:      c.Metric,
					Trend:       c.Trend,
					Description: c.Description,
					Order:       c.Order,
				}
				if err := createCard(tx, in); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
