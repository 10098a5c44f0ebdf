package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkshelf/internal/database/bookmarks"
	"github.com/mrlokans/linkshelf/internal/entities"
)

func TestBookmarksController_List(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.importScenario(t)

	t.Run("default page", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookmarks", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[bookmarks.Page](t, w)
		assert.Equal(t, int64(2), page.TotalCount)
		assert.Equal(t, int64(1), page.TotalPages)
		assert.Equal(t, 0, page.Page)
		require.Len(t, page.Bookmarks, 2)
		assert.Equal(t, "https://x", page.Bookmarks[0].Link)
		assert.Equal(t, int64(1), page.Bookmarks[0].AddedAt)
	})

	t.Run("second page of one", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookmarks?page=1&page_size=1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[bookmarks.Page](t, w)
		assert.Equal(t, int64(2), page.TotalPages)
		assert.Equal(t, 1, page.Page)
		require.Len(t, page.Bookmarks, 1)
		assert.Equal(t, "https://y", page.Bookmarks[0].Link)
	})

	t.Run("all", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookmarks?all=true&page_size=1", nil)
		page := decode[bookmarks.Page](t, w)
		assert.Len(t, page.Bookmarks, 2)
		assert.Equal(t, int64(1), page.TotalPages)
	})

	t.Run("invalid page", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookmarks?page=-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookmarksController_GetAndDelete(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.importScenario(t)

	w := env.do(t, http.MethodGet, "/api/bookmarks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bookmark := decode[entities.Bookmark](t, w)
	assert.Equal(t, "https://x", bookmark.Link)

	w = env.do(t, http.MethodDelete, "/api/bookmarks/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/bookmarks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/bookmarks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/bookmarks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
