package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies how a playlist's raw content was obtained.
type SourceType string

const (
	SourceUpload SourceType = "upload"
	SourceURL    SourceType = "url"
	SourceText   SourceType = "text"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceUpload, SourceURL, SourceText:
		return true
	}
	return false
}

// Playlist represents one imported playlist source: its metadata plus the
// grouped categories produced from the most recent parse of its content.
// Categories are always regenerated wholesale by the grouping engine on
// import or refresh, never edited in place.
type Playlist struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	SourceType SourceType        `json:"source_type"`
	SourceURL  string            `json:"source_url,omitempty"`
	SourceText string            `json:"source_text,omitempty"`
	Filename   string            `json:"filename,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
	Header     map[string]string `json:"header,omitempty"`
	Categories []CategoryEntry   `json:"categories"`
}

// NewPlaylist creates a playlist with a generated id and creation timestamp.
func NewPlaylist(title string, sourceType SourceType) *Playlist {
	return &Playlist{
		ID:         uuid.NewString(),
		Title:      title,
		SourceType: sourceType,
		CreatedAt:  time.Now().UTC(),
	}
}

// AllChannels returns the channels of the synthetic "All" category, which
// holds every channel of the playlist exactly once. Returns nil when the
// playlist has no categories.
func (p *Playlist) AllChannels() []Channel {
	for _, entry := range p.Categories {
		if entry.Category == AllCategoryName {
			return entry.Channels
		}
	}
	return nil
}

// AllCategoryName is the display name of the synthetic category that holds
// every channel of a playlist.
const AllCategoryName = "All"
