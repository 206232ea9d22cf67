package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author"`
	Title    string `gorm:"uniqueIndex;size:250;not null" json:"title"`
	Subtitle string `gorm:"size:250;not null" json:"subtitle"`
	// Date is the human-readable publication date shown on the page,
	// e.g. "August 31, 2026". CreatedAt stays the machine timestamp.
	Date      string    `gorm:"size:250;not null" json:"date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImgURL    string    `gorm:"size:250;not null" json:"img_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not a database column, filled by list queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}

// DateFormat is the display layout for Post.Date.
const DateFormat = "January 2, 2006"
