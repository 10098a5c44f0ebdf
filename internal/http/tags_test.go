package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkshelf/internal/database/tags"
	"github.com/mrlokans/linkshelf/internal/entities"
)

func TestTagsController_List(t *testing.T) {
	t.Run("returns empty list when no tags exist", func(t *testing.T) {
		env := setupTestEnv(t, nil)

		w := env.do(t, http.MethodGet, "/api/tags", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]tags.TagCount](t, w))
	})

	t.Run("returns imported folder tags", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		env.importScenario(t)

		w := env.do(t, http.MethodGet, "/api/tags", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []tags.TagCount{{TagName: "Work", Count: 1}}, decode[[]tags.TagCount](t, w))
	})
}

func TestTagsController_AddAndRemove(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.importScenario(t)

	w := env.do(t, http.MethodPost, "/api/bookmarks/2/tags", map[string]string{"name": "reading"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	current := decode[[]entities.Tag](t, w)
	require.Len(t, current, 1)
	assert.Equal(t, "reading", current[0].TagName)

	w = env.do(t, http.MethodPost, "/api/bookmarks/2/tags", map[string]string{"name": "reading"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decode[[]entities.Tag](t, w), 1)

	w = env.do(t, http.MethodGet, "/api/tags/reading/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]entities.Bookmark](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "https://y", list[0].Link)

	w = env.do(t, http.MethodGet, "/api/tags/search?q=rea", nil)
	assert.Equal(t, []string{"reading"}, decode[[]string](t, w))

	w = env.do(t, http.MethodDelete, "/api/bookmarks/2/tags/reading", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	tagsLeft, err := env.tags.GetTagsForBookmark(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, tagsLeft)
}

func TestTagsController_AddTagErrors(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.importScenario(t)

	w := env.do(t, http.MethodPost, "/api/bookmarks/2/tags", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/bookmarks/2/tags", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/bookmarks/99/tags", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
