package models

import (
	"time"

	"gorm.io/gorm"
)

// StartingTokenBalance is seeded into every freshly bootstrapped profile.
const StartingTokenBalance = 100

// UserProfile is the platform-side profile row, one per identity-provider
// user. Created lazily on first profile fetch, or by the profile sync worker,
// whichever runs first. The primary key is the identity provider's user id.
//
// TokenBalance is stored redundantly next to the transactions ledger and
// mutated independently of it; the two can drift after a partial write.
type UserProfile struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"index;not null" json:"username"`

	AvatarURL *string `json:"avatar_url,omitempty"`

	TokenBalance     int64 `json:"token_balance" gorm:"default:0;check:token_balance >= 0"`
	Level            int   `json:"level" gorm:"default:1"`
	ExperiencePoints int64 `json:"experience_points" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
