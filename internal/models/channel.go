package models

// Channel represents a single tunable stream entry produced by the M3U parser.
// Channels are immutable once parsed: grouping and favoriting only re-reference
// or copy them, never mutate them.
type Channel struct {
	Name       string            `json:"name"`
	StreamURL  string            `json:"stream_url,omitempty"`
	LogoURL    string            `json:"logo_url,omitempty"`
	GroupTitle string            `json:"group_title,omitempty"`
	TvgID      string            `json:"tvg_id,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

// CategoryEntry is a named bucket of channels. The category name is stored
// normalized (trimmed, lower-cased), except for the synthetic "All" entry
// which keeps its display casing.
type CategoryEntry struct {
	Category string    `json:"category"`
	Channels []Channel `json:"channels"`
}
