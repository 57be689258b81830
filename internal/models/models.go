package models

// Meta carries the public dashboard title and subtitle.
type Meta struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type Group struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Label         string `json:"label"`
	Order         int    `json:"order"`
	SubgroupCount int    `json:"subgroups_count"`
}

// Section is a subgroup: it belongs to exactly one group and holds cards.
// GroupLabel and GroupSlug are denormalized from the owning group.
type Section struct {
	Slug        string `json:"slug"`
	Label       string `json:"label"`
	Description string `json:"description"`
	GroupLabel  string `json:"group"`
	GroupSlug   string `json:"group_slug"`
	Order       int    `json:"order"`
}

type Card struct {
	ID           int64  `json:"id"`
	SectionSlug  string `json:"section_slug"`
	GroupSlug    string `json:"group_slug,omitempty"`
	GroupLabel   string `json:"group_label,omitempty"`
	SectionLabel string `json:"section_label,omitempty"`
	Title        string `json:"title"`
	Href         string `json:"href"`
	External     bool   `json:"external"`
	Icon         string `json:"icon"`
	Status       string `json:"status"`
	Metric       string `json:"metric"`
	Trend        string `json:"trend"`
	Description  string `json:"description"`
	Order        int    `json:"order"`
}

// CardInput is the write shape for card create/update. SubgroupSlug wins over
// SectionSlug when both are set; blank fields fall back to repository defaults.
type CardInput struct {
	SectionSlug  string
	SubgroupSlug string
	Title        string
	Href         string
	External     bool
	Icon         string
	Status       string
	Metric       string
	Trend        string
	Description  string
	Order        int
}
