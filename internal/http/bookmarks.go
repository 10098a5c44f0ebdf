package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/database/bookmarks"
	"github.com/mrlokans/linkshelf/internal/entities"
)

// BookmarkStore reads and deletes stored bookmarks.
type BookmarkStore interface {
	List(ctx context.Context, opts bookmarks.ListOptions) (*bookmarks.Page, error)
	GetByID(ctx context.Context, id uint) (*entities.Bookmark, error)
	Delete(ctx context.Context, id uint) error
}

type BookmarksController struct {
	store BookmarkStore
}

func NewBookmarksController(store BookmarkStore) *BookmarksController {
	return &BookmarksController{store: store}
}

// List returns one page of bookmarks. Pages are zero-based; all=true
// returns everything in a single page.
// GET /api/bookmarks?page=0&page_size=10
func (bc *BookmarksController) List(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "page_size", bookmarks.DefaultPageSize)
	if !ok {
		return
	}
	all, _ := strconv.ParseBool(c.Query("all"))

	result, err := bc.store.List(c.Request.Context(), bookmarks.ListOptions{
		Page:     page,
		PageSize: pageSize,
		All:      all,
	})
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one bookmark.
// GET /api/bookmarks/:id
func (bc *BookmarksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookmark, err := bc.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// Delete removes a bookmark and its tags.
// DELETE /api/bookmarks/:id
func (bc *BookmarksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "bookmark")
		return
	}
	respondSuccess(c, "bookmark deleted")
}
