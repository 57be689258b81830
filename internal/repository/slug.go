package repository

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9-]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// NormalizeSlug lowercases value, replaces anything outside [a-z0-9-] with a
// hyphen, collapses runs of hyphens and trims them from both ends. An empty
// result falls back to the caller-supplied default.
func NormalizeSlug(value, fallback string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallback
	}
	return slug
}

const defaultIcon = "bi-globe2"

// legacy emoji values imported from the first version of the dashboard
var legacyIcons = map[string]string{
	"🌐":  "bi-globe2",
	"📌":  "bi-pin-angle",
	"⚓":  "bi-life-preserver",
	"✈️": "bi-airplane",
	"🛡️": "bi-shield",
	"🎖️": "bi-award",
}

// normalizeIcon maps legacy emoji values to icon-font identifiers. Unknown
// values pass through unchanged; blank becomes the default icon.
func normalizeIcon(icon string) string {
	value := strings.TrimSpace(icon)
	if value == "" {
		return defaultIcon
	}
	if mapped, ok := legacyIcons[value]; ok {
		return mapped
	}
	return value
}
