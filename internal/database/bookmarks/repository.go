// Package bookmarks stores imported bookmarks and their tags.
//
// WriteBatch is the only write path used by imports. It runs one gorm
// transaction per call: either every record of the batch and its tags is
// committed, or nothing is.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/linkshelf/internal/entities"
	"github.com/mrlokans/linkshelf/internal/parsers"
)

const DefaultPageSize = 10

// ErrEmptyLink rejects a record without a link. It aborts the whole batch.
var ErrEmptyLink = errors.New("bookmark link is empty")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WriteBatch inserts records and their tags in a single transaction. Tag
// inserts that collide with an existing (bookmark, tag) pair are skipped.
func (r *Repository) WriteBatch(ctx context.Context, records []parsers.ParsedRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			record := &records[i]
			if strings.TrimSpace(record.Link) == "" {
				return fmt.Errorf("record %d: %w", i, ErrEmptyLink)
			}

			bookmark := entities.Bookmark{
				Title:    record.Title,
				Link:     record.Link,
				IconLink: record.IconLink,
				AddedAt:  int64(record.CreatedAt),
			}
			if err := tx.Create(&bookmark).Error; err != nil {
				return fmt.Errorf("inserting bookmark %s: %w", record.Link, err)
			}

			if err := insertTags(tx, bookmark.ID, record.Tags); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTags(tx *gorm.DB, bookmarkID uint, names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag := entities.Tag{BookmarkID: bookmarkID, TagName: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return fmt.Errorf("tagging bookmark %d with %q: %w", bookmarkID, name, err)
		}
	}
	return nil
}

// ListOptions selects one page of bookmarks. Page is zero-based. All returns
// every bookmark in a single page.
type ListOptions struct {
	Page     int
	PageSize int
	All      bool
}

type Page struct {
	Bookmarks  []entities.Bookmark `json:"bookmarks"`
	TotalCount int64               `json:"total_count"`
	TotalPages int64               `json:"total_pages"`
	Page       int                 `json:"page"`
}

// List returns bookmarks with their tags in insertion order.
func (r *Repository) List(ctx context.Context, opts ListOptions) (*Page, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&entities.Bookmark{}).Count(&total).Error; err != nil {
		return nil, err
	}

	query := db.Preload("Tags").Order("id ASC")
	result := &Page{TotalCount: total}

	if opts.All {
		result.TotalPages = 1
	} else {
		if opts.PageSize <= 0 {
			opts.PageSize = DefaultPageSize
		}
		if opts.Page < 0 {
			opts.Page = 0
		}
		result.Page = opts.Page
		result.TotalPages = int64(math.Ceil(float64(total) / float64(opts.PageSize)))
		query = query.Limit(opts.PageSize).Offset(opts.Page * opts.PageSize)
	}

	bookmarks := []entities.Bookmark{}
	if err := query.Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	for i := range bookmarks {
		if bookmarks[i].Tags == nil {
			bookmarks[i].Tags = []entities.Tag{}
		}
	}
	result.Bookmarks = bookmarks

	return result, nil
}

// GetByID retrieves a bookmark with its tags.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark
	err := r.db.WithContext(ctx).Preload("Tags").First(&bookmark, id).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// Count returns the number of stored bookmarks.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Bookmark{}).Count(&total).Error
	return total, err
}

// Delete removes a bookmark. Its tags go with it.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bookmark_id = ?", id).Delete(&entities.Tag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Bookmark{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
