package models

// RewardCategory groups store items for filtering
type RewardCategory string

const (
	RewardCategoryUpgrade   RewardCategory = "upgrade"
	RewardCategoryCosmetic  RewardCategory = "cosmetic"
	RewardCategoryUtility   RewardCategory = "utility"
	RewardCategoryExclusive RewardCategory = "exclusive"
)

// RewardRarity is a 4-level scale from common to legendary
type RewardRarity string

const (
	RewardRarityCommon    RewardRarity = "common"
	RewardRarityRare      RewardRarity = "rare"
	RewardRarityEpic      RewardRarity = "epic"
	RewardRarityLegendary RewardRarity = "legendary"
)

// Reward is a purchasable store item. Purchases are recorded only as spent
// ledger transactions; the reward itself carries no per-user state and stays
// repeatedly purchasable.
type Reward struct {
	ID          string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	TokenCost   int64          `gorm:"not null" json:"token_cost"`
	Category    RewardCategory `gorm:"type:varchar(16);not null;check:category IN ('upgrade','cosmetic','utility','exclusive')" json:"category"`
	Rarity      RewardRarity   `gorm:"type:varchar(16);not null;default:'common';check:rarity IN ('common','rare','epic','legendary')" json:"rarity"`
	ImageURL    string         `gorm:"type:text" json:"image_url,omitempty"`
	IsAvailable bool           `gorm:"default:true;index" json:"is_available"`

	Timestamps
}
