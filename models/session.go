package models

import "time"

type Session struct {
	ID        string    `json:"id" gorm:"primarykey;size:36"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	IPAddress string    `json:"ip_address" gorm:"size:64"`
	UserAgent string    `json:"user_agent" gorm:"size:255"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
