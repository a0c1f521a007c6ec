package models

import (
	"time"
)

type UserRole string

const (
	RoleCommunityMember UserRole = "community_member"
	RoleBlogWriter      UserRole = "blog_writer"
)

// Valid reports whether r is one of the assignable roles.
func (r UserRole) Valid() bool {
	return r == RoleCommunityMember || r == RoleBlogWriter
}

type User struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	Email              string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Password           string    `json:"-" gorm:"size:100;not null"`
	Name               string    `json:"name" gorm:"size:100;not null"`
	Role               UserRole  `json:"role" gorm:"size:32;not null;default:'community_member'"`
	NewsletterInterest *string   `json:"newsletter_interest,omitempty" gorm:"size:100"`
	ApproxLocation     *string   `json:"approx_location,omitempty" gorm:"size:250"`
	WantsExtraInfo     bool      `json:"wants_extra_info" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Subscribed reports whether the user signed up for the newsletter digest.
func (u *User) Subscribed() bool {
	return u.NewsletterInterest != nil && *u.NewsletterInterest != ""
}
