package models

import "time"

// Suggested edits are private feedback and carry no author.
type SuggestedEdit struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	EditType  string    `json:"edit_type" gorm:"size:32;not null"`
	EditText  string    `json:"edit_text" gorm:"type:text;not null"`
	OtherInfo string    `json:"other_info" gorm:"size:250"`
	CreatedAt time.Time `json:"created_at"`
}
