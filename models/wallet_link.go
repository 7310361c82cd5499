// models/wallet_link.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletLink mirrors connected-wallet rows owned by the external wallet
// service. Read-only on this side; the sync worker upserts changes.
// Table name: wallet_links
type WalletLink struct {
	ID           string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Chain        string    `gorm:"type:varchar(64);not null;index" json:"chain"`
	Address      string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"address"`
	Verified     bool      `gorm:"not null" json:"verified"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	LastSyncedAt time.Time `gorm:"not null" json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
