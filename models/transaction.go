package models

import "time"

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionEarned    TransactionType = "earned"
	TransactionSpent     TransactionType = "spent"
	TransactionExchanged TransactionType = "exchanged"
)

// Transaction is an append-only ledger entry; rows are never updated or
// deleted. The running sum of earned minus spent amounts is the intended
// value of UserProfile.TokenBalance, but nothing reconciles the two.
type Transaction struct {
	ID          string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string          `gorm:"index;not null;type:uuid" json:"user_id"`
	Type        TransactionType `gorm:"type:varchar(16);not null;check:type IN ('earned','spent','exchanged')" json:"type"`
	Amount      int64           `gorm:"not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}
