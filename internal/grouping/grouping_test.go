package grouping

import (
	"testing"

	"github.com/marcsigha/bbtv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channel(name, groupTitle string) models.Channel {
	return models.Channel{
		Name:       name,
		StreamURL:  "http://streams.example.com/" + name,
		GroupTitle: groupTitle,
	}
}

func categoryNames(entries []models.CategoryEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Category)
	}
	return names
}

func TestGroup_EmptyInput(t *testing.T) {
	result := Group(nil, DefaultOptions())
	assert.Empty(t, result)

	result = Group([]models.Channel{}, DefaultOptions())
	assert.Empty(t, result)
}

func TestGroup_FanOutAcrossCategories(t *testing.T) {
	channels := []models.Channel{
		channel("BBC", "News;World"),
		channel("CNN", "News"),
	}

	result := Group(channels, DefaultOptions())

	require.Equal(t, []string{"All", "news", "world"}, categoryNames(result))
	assert.Len(t, result[0].Channels, 2)
	assert.Len(t, result[1].Channels, 2)
	assert.Len(t, result[2].Channels, 1)
	assert.Equal(t, "BBC", result[2].Channels[0].Name)
}

func TestGroup_MissingGroupTitleFallsBackToDefault(t *testing.T) {
	channels := []models.Channel{
		channel("Local", ""),
		channel("Padded", "   "),
	}

	result := Group(channels, DefaultOptions())

	require.Equal(t, []string{"All", "other"}, categoryNames(result))
	assert.Len(t, result[1].Channels, 2)
}

func TestGroup_DefaultCategorySortsLast(t *testing.T) {
	// "zebra" alphabetically follows "other" but must not sort after it.
	channels := []models.Channel{
		channel("NoGroup", ""),
		channel("Zebras", "Zebra"),
		channel("BBC", "News"),
	}

	result := Group(channels, DefaultOptions())

	assert.Equal(t, []string{"All", "news", "zebra", "other"}, categoryNames(result))
}

func TestGroup_AllEntryHoldsEveryChannelOnce(t *testing.T) {
	channels := []models.Channel{
		channel("BBC", "News;World;Sports"),
		channel("CNN", "News"),
		channel("Local", ""),
	}

	result := Group(channels, DefaultOptions())

	require.Equal(t, models.AllCategoryName, result[0].Category)
	require.Len(t, result[0].Channels, len(channels))
	// Original parse order preserved.
	assert.Equal(t, "BBC", result[0].Channels[0].Name)
	assert.Equal(t, "CNN", result[0].Channels[1].Name)
	assert.Equal(t, "Local", result[0].Channels[2].Name)
}

func TestGroup_ExcludeAllCategory(t *testing.T) {
	channels := []models.Channel{channel("BBC", "News")}

	opts := DefaultOptions()
	opts.IncludeAll = false

	result := Group(channels, opts)
	assert.Equal(t, []string{"news"}, categoryNames(result))
}

func TestGroup_CategoryNamesAreNormalizedAndDistinct(t *testing.T) {
	channels := []models.Channel{
		channel("BBC", "News"),
		channel("CNN", "NEWS"),
		channel("Sky", "  news  "),
	}

	result := Group(channels, DefaultOptions())

	require.Equal(t, []string{"All", "news"}, categoryNames(result))
	assert.Len(t, result[1].Channels, 3)
}

func TestGroup_SeparatorEdgeCases(t *testing.T) {
	channels := []models.Channel{
		// Empty pieces are dropped, remaining pieces kept.
		channel("BBC", ";News;;"),
		// Nothing but separators falls back to the default category.
		channel("CNN", ";;;"),
	}

	result := Group(channels, DefaultOptions())

	assert.Equal(t, []string{"All", "news", "other"}, categoryNames(result))
}

func TestGroup_CustomSeparatorAndDefault(t *testing.T) {
	channels := []models.Channel{
		channel("BBC", "News|World"),
		channel("Local", ""),
	}

	opts := DefaultOptions()
	opts.Separator = "|"
	opts.DefaultCategory = "Uncategorized"

	result := Group(channels, opts)

	assert.Equal(t, []string{"All", "news", "world", "uncategorized"}, categoryNames(result))
}

func TestGroup_SortItemsWithinCategories(t *testing.T) {
	channels := []models.Channel{
		channel("zdf", "News"),
		channel("BBC", "News"),
		channel("cnn", "News"),
	}

	opts := DefaultOptions()
	opts.SortItems = true

	result := Group(channels, opts)

	require.Equal(t, []string{"All", "news"}, categoryNames(result))
	// Case-insensitive name order, in "All" as well.
	assert.Equal(t, "BBC", result[0].Channels[0].Name)
	assert.Equal(t, "cnn", result[0].Channels[1].Name)
	assert.Equal(t, "zdf", result[0].Channels[2].Name)
	assert.Equal(t, "BBC", result[1].Channels[0].Name)
}

func TestGroup_UnsortedKeepsFirstSeenOrder(t *testing.T) {
	channels := []models.Channel{
		channel("Zebras", "Zebra"),
		channel("BBC", "News"),
	}

	opts := DefaultOptions()
	opts.SortCategories = false
	opts.IncludeAll = false

	result := Group(channels, opts)

	assert.Equal(t, []string{"zebra", "news"}, categoryNames(result))
}

func TestGroup_Deterministic(t *testing.T) {
	channels := []models.Channel{
		channel("BBC", "News;World"),
		channel("CNN", "News"),
		channel("Local", ""),
		channel("Sky", "Sports;News"),
	}

	first := Group(channels, DefaultOptions())
	second := Group(channels, DefaultOptions())

	assert.Equal(t, first, second)
}

func TestGroup_NeverMutatesInput(t *testing.T) {
	channels := []models.Channel{
		channel("zdf", "News"),
		channel("BBC", "News"),
	}

	opts := DefaultOptions()
	opts.SortItems = true
	Group(channels, opts)

	// Input order untouched even though categories were sorted by name.
	assert.Equal(t, "zdf", channels[0].Name)
	assert.Equal(t, "BBC", channels[1].Name)
}
