// Package grouping turns the flat channel list produced by the M3U parser
// into an ordered list of category entries.
package grouping

import (
	"sort"
	"strings"

	"github.com/marcsigha/bbtv/internal/models"
)

// Options controls how channels are grouped into categories.
type Options struct {
	// SortCategories sorts entries case-insensitively by name, keeping the
	// default category last.
	SortCategories bool
	// SortItems sorts the channels inside every category by name instead of
	// keeping parse order.
	SortItems bool
	// DefaultCategory is where channels without a usable group-title land.
	DefaultCategory string
	// IncludeAll prepends a synthetic "All" entry holding every channel once.
	IncludeAll bool
	// Separator splits multi-valued group-titles ("Sports;News").
	Separator string
}

// DefaultOptions returns the options used by the import and refresh paths.
func DefaultOptions() Options {
	return Options{
		SortCategories:  true,
		SortItems:       false,
		DefaultCategory: "Other",
		IncludeAll:      true,
		Separator:       ";",
	}
}

// Group buckets channels by their group-title. A channel whose group-title
// lists several categories appears in each of them (fan-out); a channel
// without one lands in the default category. Category names are normalized
// to trimmed lower-case. Group never fails: malformed input degrades to the
// default category, and an empty input yields an empty result.
func Group(channels []models.Channel, opts Options) []models.CategoryEntry {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = "Other"
	}
	if opts.Separator == "" {
		opts.Separator = ";"
	}
	if len(channels) == 0 {
		return []models.CategoryEntry{}
	}

	defaultKey := strings.ToLower(opts.DefaultCategory)

	// Map for membership, slice for first-seen order.
	index := make(map[string]int)
	var entries []models.CategoryEntry

	for _, ch := range channels {
		for _, key := range splitCategories(ch.GroupTitle, opts.Separator, defaultKey) {
			i, ok := index[key]
			if !ok {
				i = len(entries)
				index[key] = i
				entries = append(entries, models.CategoryEntry{Category: key})
			}
			entries[i].Channels = append(entries[i].Channels, ch)
		}
	}

	if opts.SortCategories {
		sort.SliceStable(entries, func(a, b int) bool {
			ca, cb := entries[a].Category, entries[b].Category
			// The default category always sorts last.
			if ca == defaultKey {
				return false
			}
			if cb == defaultKey {
				return true
			}
			return strings.ToLower(ca) < strings.ToLower(cb)
		})
	}

	if opts.SortItems {
		for i := range entries {
			sortChannelsByName(entries[i].Channels)
		}
	}

	if opts.IncludeAll {
		all := make([]models.Channel, len(channels))
		copy(all, channels)
		if opts.SortItems {
			sortChannelsByName(all)
		}
		entries = append([]models.CategoryEntry{{
			Category: models.AllCategoryName,
			Channels: all,
		}}, entries...)
	}

	return entries
}

// splitCategories breaks a group-title into normalized category keys,
// falling back to the default key when nothing usable remains.
func splitCategories(groupTitle, separator, defaultKey string) []string {
	raw := strings.TrimSpace(groupTitle)
	if raw == "" {
		return []string{defaultKey}
	}

	var keys []string
	for _, piece := range strings.Split(raw, separator) {
		key := strings.ToLower(strings.TrimSpace(piece))
		if key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return []string{defaultKey}
	}
	return keys
}

func sortChannelsByName(channels []models.Channel) {
	sort.SliceStable(channels, func(a, b int) bool {
		return strings.ToLower(channels[a].Name) < strings.ToLower(channels[b].Name)
	})
}
