package models

import (
	"time"
)

// PostDateLayout is the human readable date stamped on a post at creation.
const PostDateLayout = "January 02, 2006"

type BlogPost struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	Title     string    `json:"title" gorm:"size:250;uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"size:250;uniqueIndex;not null"`
	Subtitle  string    `json:"subtitle" gorm:"size:250;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	ImgURL    string    `json:"img_url" gorm:"size:250;not null"`
	Date      string    `json:"date" gorm:"size:250;not null"`
	Comments  []Comment `json:"comments,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
