package entities

// Bookmark is one imported link. AddedAt holds the creation time in unix
// seconds as reported by the source file, not the time of the import.
type Bookmark struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Title    *string `gorm:"size:1024" json:"title"`
	Link     string  `gorm:"not null;size:4096;index" json:"link"`
	IconLink *string `gorm:"size:4096" json:"icon_link"`
	AddedAt  int64   `gorm:"column:created_at;index" json:"created_at"`
	Tags     []Tag   `gorm:"foreignKey:BookmarkID;constraint:OnDelete:CASCADE" json:"tags"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// Tag attaches a label to a bookmark. The (bookmark, name) pair is the key,
// so attaching the same label twice is a no-op.
type Tag struct {
	BookmarkID uint   `gorm:"primaryKey;autoIncrement:false" json:"bookmark_id"`
	TagName    string `gorm:"primaryKey;size:255" json:"tag_name"`
}

func (Tag) TableName() string {
	return "tags"
}
