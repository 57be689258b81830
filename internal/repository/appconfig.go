package repository

import (
	"fmt"

	"github.com/luciolemos/itapiru-srv798468/internal/models"
)

const (
	defaultTitle    = "Dashboard Público"
	defaultSubtitle = "Painel público com cards dinâmicos por seção"
)

// ConfigValue returns the stored value for key, or fallback when absent.
func (r *DashboardRepository) ConfigValue(key, fallback string) string {
	var value string
	err := r.db.QueryRow(`SELECT config_value FROM app_config WHERE config_key = ?`, key).Scan(&value)
	if err != nil {
		return fallback
	}
	return value
}

func (r *DashboardRepository) SetConfigValue(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO app_config (config_key, config_value) VALUES (?, ?)
		ON CONFLICT(config_key) DO UPDATE SET config_value = excluded.config_value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

func (r *DashboardRepository) DeleteConfigValue(key string) error {
	if _, err := r.db.Exec(`DELETE FROM app_config WHERE config_key = ?`, key); err != nil {
		return fmt.Errorf("delete config %s: %w", key, err)
	}
	return nil
}

// Meta returns the dashboard title and subtitle, with hardcoded defaults.
func (r *DashboardRepository) Meta() models.Meta {
	meta := models.Meta{Title: defaultTitle, Subtitle: defaultSubtitle}

	rows, err := r.db.Query(`SELECT config_key, config_value FROM app_config WHERE config_key IN ('title', 'subtitle')`)
	if err != nil {
		return meta
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "title":
			meta.Title = value
		case "subtitle":
			meta.Subtitle = value
		}
	}
	return meta
}

func setConfigValueTx(q dbtx, key, value string) error {
	_, err := q.Exec(`
		INSERT INTO app_config (config_key, config_value) VALUES (?, ?)
		ON CONFLICT(config_key) DO UPDATE SET config_value = excluded.config_value`,
		key, value,
	)
	return err
}
