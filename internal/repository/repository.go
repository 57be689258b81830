// Package repository is the sole owner of the relational store backing the
// dashboard: groups, sections (subgroups), cards, app config and admins. All
// multi-row mutations run inside a transaction so partial failure never
// leaves half-repointed children behind.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/luciolemos/itapiru-srv798468/internal/seed"
)

// DefaultGroupLabel is the label sections fall back to when their group
// reference cannot be resolved.
const DefaultGroupLabel = "Geral"

// DefaultSectionSlug is where cards land when no section is named.
const DefaultSectionSlug = "geral"

type DashboardRepository struct {
	db *sql.DB
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so helpers can run inside or
// outside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// New wraps db and runs the idempotent bootstrap sequence: additive column
// migrations, group backfill and dedup, first-boot seeding (only when the
// database file is fresh and the sections table empty), default admin
// creation, and section group-label resync.
func New(db *sql.DB, sd *seed.Seed, adminUser, adminPass string, freshDB bool) (*DashboardRepository, error) {
	r := &DashboardRepository{db: db}
	if err := r.bootstrap(sd, adminUser, adminPass, freshDB); err != nil {
		return nil, fmt.Errorf("bootstrap repository: %w", err)
	}
	return r, nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func (r *DashboardRepository) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
