package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/database/tags"
	"github.com/mrlokans/linkshelf/internal/entities"
)

// TagStore defines database operations for tag management.
type TagStore interface {
	AddTag(ctx context.Context, bookmarkID uint, name string) error
	RemoveTag(ctx context.Context, bookmarkID uint, name string) error
	GetTagsForBookmark(ctx context.Context, bookmarkID uint) ([]entities.Tag, error)
	ListTagCounts(ctx context.Context) ([]tags.TagCount, error)
	SearchTags(ctx context.Context, query string) ([]string, error)
	GetBookmarksByTag(ctx context.Context, name string) ([]entities.Bookmark, error)
}

type TagsController struct {
	store TagStore
}

func NewTagsController(store TagStore) *TagsController {
	return &TagsController{store: store}
}

// List returns every tag name with its bookmark count.
// GET /api/tags
func (tc *TagsController) List(c *gin.Context) {
	counts, err := tc.store.ListTagCounts(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Search returns tag names containing q.
// GET /api/tags/search?q=dev
func (tc *TagsController) Search(c *gin.Context) {
	names, err := tc.store.SearchTags(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "search tags")
		return
	}
	c.JSON(http.StatusOK, names)
}

// Bookmarks returns the bookmarks carrying a tag.
// GET /api/tags/:name/bookmarks
func (tc *TagsController) Bookmarks(c *gin.Context) {
	list, err := tc.store.GetBookmarksByTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondInternalError(c, err, "bookmarks by tag")
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddTag attaches a tag to a bookmark.
// POST /api/bookmarks/:id/tags
func (tc *TagsController) AddTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	if err := tc.store.AddTag(c.Request.Context(), id, req.Name); err != nil {
		if errors.Is(err, tags.ErrEmptyTagName) {
			respondBadRequest(c, err.Error())
			return
		}
		respondStoreError(c, err, "bookmark")
		return
	}

	current, err := tc.store.GetTagsForBookmark(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "get tags")
		return
	}
	respondCreated(c, current)
}

// RemoveTag detaches a tag from a bookmark.
// DELETE /api/bookmarks/:id/tags/:name
func (tc *TagsController) RemoveTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := tc.store.RemoveTag(c.Request.Context(), id, c.Param("name")); err != nil {
		respondInternalError(c, err, "remove tag")
		return
	}
	respondSuccess(c, "tag removed")
}
