package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/tests/testutil"
)

func TestBookmarkRoundTrip(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	a := model.Article{
		ID:         42,
		Board:      "golang",
		Title:      "Generics in practice",
		Body:       "body text",
		Author:     "gopher",
		Likes:      3,
		Bookmarked: true,
		CreatedAt:  time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.SaveBookmark(ctx, a))

	got, err := c.Bookmark(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Generics in practice", got.Title)
	assert.Equal(t, "golang", got.Board)

	all, err := c.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, c.DeleteBookmark(ctx, 42))
	got, err = c.Bookmark(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveBookmarkIsUpsert(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	a := model.Article{ID: 1, Board: "misc", Title: "v1"}
	require.NoError(t, c.SaveBookmark(ctx, a))

	a.Title = "v2"
	require.NoError(t, c.SaveBookmark(ctx, a))

	all, err := c.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Title)
}

func TestBoardMirrorAndFollow(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	boards := []model.Board{
		{Slug: "golang", Name: "Go", Description: "all things Go", ArticleCount: 12},
		{Slug: "random", Name: "Random", Followed: true},
	}
	require.NoError(t, c.UpsertBoards(ctx, boards))

	got, err := c.Boards(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	followed, err := c.FollowedBoards(ctx)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, "random", followed[0].Slug)

	require.NoError(t, c.SetBoardFollowed(ctx, "golang", true))
	followed, err = c.FollowedBoards(ctx)
	require.NoError(t, err)
	assert.Len(t, followed, 2)
}

func TestDraftLifecycle(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	d, err := c.SaveDraft(ctx, cache.Draft{
		Board: "golang",
		Title: "wip",
		Body:  "draft body",
	})
	require.NoError(t, err)
	require.NotEmpty(t, d.ID, "a new draft gets a generated id")

	d.Title = "wip v2"
	updated, err := c.SaveDraft(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, d.ID, updated.ID)

	drafts, err := c.Drafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "wip v2", drafts[0].Title)

	require.NoError(t, c.DeleteDraft(ctx, d.ID))
	drafts, err = c.Drafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDraftsOrderedByRecency(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	first, err := c.SaveDraft(ctx, cache.Draft{Board: "a", Title: "older"})
	require.NoError(t, err)

	_, err = c.SaveDraft(ctx, cache.Draft{Board: "b", Title: "newer"})
	require.NoError(t, err)

	// Touch the first draft so it becomes the most recent.
	first.Body = "edited"
	_, err = c.SaveDraft(ctx, first)
	require.NoError(t, err)

	drafts, err := c.Drafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "older", drafts[0].Title)
}
