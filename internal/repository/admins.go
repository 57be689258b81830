package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// VerifyAdmin checks username/password against the stored bcrypt hash.
// Unknown usernames and bad passwords both report false.
func (r *DashboardRepository) VerifyAdmin(username, password string) bool {
	var hash string
	err := r.db.QueryRow(`SELECT password_hash FROM admins WHERE username = ? LIMIT 1`, username).Scan(&hash)
	if err != nil || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UpdateAdmin renames the admin account and/or replaces its password. A blank
// newPassword keeps the current hash. A blank newUsername keeps the current
// name. Duplicate usernames yield ErrConflict.
func (r *DashboardRepository) UpdateAdmin(currentUsername, newUsername, newPassword string) error {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM admins WHERE username = ? LIMIT 1`, currentUsername).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: admin %s", ErrNotFound, currentUsername)
	}
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}

	name := strings.TrimSpace(newUsername)
	if name == "" {
		name = currentUsername
	}

	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		_, err = r.db.Exec(`UPDATE admins SET username = ?, password_hash = ? WHERE id = ?`, name, hash, id)
		return mapConstraint(err)
	}

	_, err = r.db.Exec(`UPDATE admins SET username = ? WHERE id = ?`, name, id)
	return mapConstraint(err)
}

// ensureDefaultAdmin creates the single admin account from the configured
// credentials when the admins table is empty.
func (r *DashboardRepository) ensureDefaultAdmin(username, password string) error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	name := strings.TrimSpace(username)
	if name == "" {
		name = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)`,
		name, hash, time.Now().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("insert default admin: %w", err)
	}
	return nil
}
