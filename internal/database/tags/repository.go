// Package tags provides database operations for bookmark tags.
//
// This package implements the TagStore interface defined in internal/http/tags.go.
//
// # Interface Implementation
//
//	var _ http.TagStore = (*Repository)(nil)
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	err := repo.AddTag(ctx, bookmarkID, "reading")
package tags

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/linkshelf/internal/entities"
)

var ErrEmptyTagName = errors.New("tag name is empty")

// TagCount is one distinct tag name with the number of bookmarks carrying it.
type TagCount struct {
	TagName string `json:"tag_name"`
	Count   int64  `json:"count"`
}

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddTag attaches name to a bookmark. Adding a tag that is already present
// is not an error.
func (r *Repository) AddTag(ctx context.Context, bookmarkID uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTagName
	}

	var bookmark entities.Bookmark
	if err := r.db.WithContext(ctx).Select("id").First(&bookmark, bookmarkID).Error; err != nil {
		return err
	}

	tag := entities.Tag{BookmarkID: bookmarkID, TagName: name}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error
}

// RemoveTag detaches name from a bookmark.
func (r *Repository) RemoveTag(ctx context.Context, bookmarkID uint, name string) error {
	return r.db.WithContext(ctx).
		Where("bookmark_id = ? AND tag_name = ?", bookmarkID, name).
		Delete(&entities.Tag{}).Error
}

// GetTagsForBookmark retrieves the tags of one bookmark ordered by name.
func (r *Repository) GetTagsForBookmark(ctx context.Context, bookmarkID uint) ([]entities.Tag, error) {
	tags := []entities.Tag{}
	err := r.db.WithContext(ctx).
		Where("bookmark_id = ?", bookmarkID).
		Order("tag_name ASC").
		Find(&tags).Error
	return tags, err
}

// ListTagCounts returns every distinct tag name with its bookmark count.
func (r *Repository) ListTagCounts(ctx context.Context) ([]TagCount, error) {
	counts := []TagCount{}
	err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Select("tag_name, COUNT(*) AS count").
		Group("tag_name").
		Order("tag_name ASC").
		Scan(&counts).Error
	return counts, err
}

// SearchTags returns distinct tag names containing query (case-insensitive).
func (r *Repository) SearchTags(ctx context.Context, query string) ([]string, error) {
	names := []string{}
	searchPattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Distinct("tag_name").
		Where("LOWER(tag_name) LIKE LOWER(?)", searchPattern).
		Order("tag_name ASC").
		Pluck("tag_name", &names).Error
	return names, err
}

// GetBookmarksByTag retrieves bookmarks carrying name.
func (r *Repository) GetBookmarksByTag(ctx context.Context, name string) ([]entities.Bookmark, error) {
	bookmarks := []entities.Bookmark{}
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN (?)", r.db.Model(&entities.Tag{}).Select("bookmark_id").Where("tag_name = ?", name)).
		Order("id ASC").
		Find(&bookmarks).Error
	return bookmarks, err
}
