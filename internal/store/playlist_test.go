package store

import (
	"context"
	"testing"
	"time"

	"github.com/marcsigha/bbtv/internal/grouping"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStores wires a playlist store and favorite store onto one shared
// in-memory adapter, with the cascade hooked up as in production.
func newTestStores() (*PlaylistStore, *FavoriteStore, *storage.Memory) {
	adapter := storage.NewMemory()
	favorites := NewFavoriteStore(adapter)
	playlists := NewPlaylistStore(adapter, favorites)
	return playlists, favorites, adapter
}

func testPlaylist(id, title string) models.Playlist {
	channels := []models.Channel{
		{Name: "BBC", StreamURL: "http://streams.example.com/bbc.m3u8?token=abc", TvgID: "bbc.uk", GroupTitle: "News;World"},
		{Name: "CNN", StreamURL: "http://streams.example.com/cnn.m3u8", TvgID: "cnn.us", GroupTitle: "News"},
		{Name: "Local", StreamURL: "http://streams.example.com/local.m3u8"},
	}
	return models.Playlist{
		ID:         id,
		Title:      title,
		SourceType: models.SourceText,
		SourceText: "#EXTM3U",
		CreatedAt:  time.Now().UTC(),
		Categories: grouping.Group(channels, grouping.DefaultOptions()),
	}
}

func TestPlaylistStore_AddAndGet(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	p := testPlaylist("p1", "Home")
	require.NoError(t, playlists.Add(ctx, p))

	got, err := playlists.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Title)
	assert.Len(t, playlists.All(), 1)
}

func TestPlaylistStore_AddDuplicateID(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	require.NoError(t, playlists.Add(ctx, testPlaylist("p1", "First")))

	err := playlists.Add(ctx, testPlaylist("p1", "Second"))
	require.Error(t, err)
	assert.True(t, IsDuplicatePlaylist(err))
	assert.Len(t, playlists.All(), 1)
}

func TestPlaylistStore_GetByIDMissing(t *testing.T) {
	playlists, _, _ := newTestStores()

	_, err := playlists.GetByID("nope")
	require.Error(t, err)
	assert.True(t, IsPlaylistNotFound(err))
}

func TestPlaylistStore_RemoveAbsentIsNoOp(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	require.NoError(t, playlists.Add(ctx, testPlaylist("p1", "Home")))
	playlists.Remove(ctx, "missing")

	assert.Len(t, playlists.All(), 1)
}

func TestPlaylistStore_RemoveCascadesToFavorites(t *testing.T) {
	playlists, favorites, _ := newTestStores()
	ctx := context.Background()

	p1 := testPlaylist("p1", "Home")
	p2 := testPlaylist("p2", "Work")
	require.NoError(t, playlists.Add(ctx, p1))
	require.NoError(t, playlists.Add(ctx, p2))

	favorites.Add(ctx, models.Favorite{
		ID:         models.FavoriteID("p1", "bbc.uk"),
		PlaylistID: "p1",
		Channel:    p1.AllChannels()[0],
	})
	favorites.Add(ctx, models.Favorite{
		ID:         models.FavoriteID("p2", "cnn.us"),
		PlaylistID: "p2",
		Channel:    p2.AllChannels()[1],
	})

	playlists.Remove(ctx, "p1")

	// Favorites for p1 are gone, favorites for p2 untouched.
	for _, f := range favorites.All() {
		assert.NotEqual(t, "p1", f.PlaylistID)
	}
	assert.True(t, favorites.IsFavorite("cnn.us", "p2"))
	assert.False(t, favorites.IsFavorite("bbc.uk", "p1"))
}

func TestPlaylistStore_UpdateMissingIDIsNoOp(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	playlists.Update(ctx, "missing-id", testPlaylist("missing-id", "Ghost"))
	assert.Empty(t, playlists.All())

	require.NoError(t, playlists.Add(ctx, testPlaylist("p1", "Home")))
	playlists.Update(ctx, "other", testPlaylist("other", "Ghost"))

	all := playlists.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Home", all[0].Title)
}

func TestPlaylistStore_UpdateReplacesWholesale(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	require.NoError(t, playlists.Add(ctx, testPlaylist("p1", "Home")))

	replacement := testPlaylist("p1", "Renamed")
	now := time.Now().UTC()
	replacement.UpdatedAt = &now
	playlists.Update(ctx, "p1", replacement)

	got, err := playlists.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	require.NotNil(t, got.UpdatedAt)
}

func TestPlaylistStore_SelectionLookups(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	p := testPlaylist("p1", "Home")
	require.NoError(t, playlists.Add(ctx, p))
	playlists.Select(p)

	selected, err := playlists.Selected()
	require.NoError(t, err)
	assert.Equal(t, "p1", selected.ID)

	news, err := playlists.SelectedCategory("news")
	require.NoError(t, err)
	assert.Len(t, news.Channels, 2)

	all, err := playlists.SelectedCategory(models.AllCategoryName)
	require.NoError(t, err)
	assert.Len(t, all.Channels, 3)

	// Lookup is exact against the normalized stored key.
	_, err = playlists.SelectedCategory("News")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPlaylistStore_NoSelectionErrors(t *testing.T) {
	playlists, _, _ := newTestStores()

	_, err := playlists.Selected()
	assert.True(t, IsNoSelection(err))

	_, err = playlists.SelectedCategory("news")
	assert.True(t, IsNoSelection(err))

	_, err = playlists.ChannelByID("bbc.uk")
	assert.True(t, IsNoSelection(err))

	_, err = playlists.ChannelByURL("http://streams.example.com/bbc.m3u8")
	assert.True(t, IsNoSelection(err))
}

func TestPlaylistStore_ChannelByID(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	p := testPlaylist("p1", "Home")
	require.NoError(t, playlists.Add(ctx, p))
	playlists.Select(p)

	ch, err := playlists.ChannelByID("cnn.us")
	require.NoError(t, err)
	assert.Equal(t, "CNN", ch.Name)

	_, err = playlists.ChannelByID("unknown")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPlaylistStore_ChannelByURLIgnoresQueryAndFragment(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	p := testPlaylist("p1", "Home")
	require.NoError(t, playlists.Add(ctx, p))
	playlists.Select(p)

	// Stored URL carries ?token=abc; lookup with a different query and a
	// fragment still matches on origin+path.
	ch, err := playlists.ChannelByURL("http://streams.example.com/bbc.m3u8?token=xyz#live")
	require.NoError(t, err)
	assert.Equal(t, "BBC", ch.Name)

	_, err = playlists.ChannelByURL("http://streams.example.com/missing.m3u8")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = playlists.ChannelByURL("https://streams.example.com/bbc.m3u8")
	require.Error(t, err, "scheme is part of the origin")
}

func TestPlaylistStore_ClearSelection(t *testing.T) {
	playlists, _, _ := newTestStores()
	ctx := context.Background()

	p := testPlaylist("p1", "Home")
	require.NoError(t, playlists.Add(ctx, p))
	playlists.Select(p)
	playlists.ClearSelection()

	_, err := playlists.Selected()
	assert.True(t, IsNoSelection(err))
}

func TestPlaylistStore_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	first := NewPlaylistStore(adapter, nil)
	require.NoError(t, first.Add(ctx, testPlaylist("p1", "Home")))
	require.NoError(t, first.Add(ctx, testPlaylist("p2", "Work")))
	first.Remove(ctx, "p2")

	// A fresh store over the same adapter sees the surviving state.
	second := NewPlaylistStore(adapter, nil)
	require.NoError(t, second.Load(ctx))

	all := second.All()
	require.Len(t, all, 1)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "Home", all[0].Title)
	assert.Len(t, all[0].Categories, 4) // All, news, world, other
}

func TestPlaylistStore_LoadFreshAdapterStartsEmpty(t *testing.T) {
	playlists := NewPlaylistStore(storage.NewMemory(), nil)
	require.NoError(t, playlists.Load(context.Background()))
	assert.Empty(t, playlists.All())
}

func TestPlaylistStore_LoadRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()
	require.NoError(t, adapter.Save(ctx, PlaylistKey, []byte(`{"version":99,"playlists":[]}`)))

	playlists := NewPlaylistStore(adapter, nil)
	err := playlists.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}
