package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index"`
	Replies   []Comment `json:"replies,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
}
