package models

import "time"

// ResetToken is the single active password-reset grant of a user. Only the
// SHA-256 digest of the token is stored.
type ResetToken struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	TokenHash string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	IssuedAt  time.Time `json:"issued_at" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// Expired reports whether the token is no longer usable at now.
func (t *ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
