package models

import "time"

// AchievementType selects which aggregate stat a rule is checked against
type AchievementType string

const (
	AchievementTasksCompleted AchievementType = "tasks_completed"
	AchievementStreakDays     AchievementType = "streak_days"
	AchievementTokensEarned   AchievementType = "tokens_earned"
	AchievementSpecial        AchievementType = "special"
)

// Achievement is a fixed catalog entry. The catalog lives in code, not the
// database; only grants are persisted.
type Achievement struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Requirement int64           `json:"requirement"`
	Type        AchievementType `json:"type"`
}

// UserAchievement is a grant record: write-once, never revoked. The composite
// unique index holds the one-grant-per-user invariant at the schema level;
// a racing duplicate insert fails and the evaluator moves on.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        string    `gorm:"not null;type:uuid;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// AchievementCatalog holds every rule the evaluator knows about
var AchievementCatalog = []Achievement{
	{
		ID:          "newcomer",
		Name:        "Newcomer",
		Description: "Welcome to the platform!",
		Icon:        "🎉",
		Requirement: 0,
		Type:        AchievementSpecial,
	},
	{
		ID:          "task_master_10",
		Name:        "Task Master",
		Description: "Complete 10 tasks",
		Icon:        "🏆",
		Requirement: 10,
		Type:        AchievementTasksCompleted,
	},
	{
		ID:          "task_champion_25",
		Name:        "Task Champion",
		Description: "Complete 25 tasks",
		Icon:        "👑",
		Requirement: 25,
		Type:        AchievementTasksCompleted,
	},
	{
		ID:          "streak_warrior_7",
		Name:        "Streak Warrior",
		Description: "Maintain a 7-day streak",
		Icon:        "🔥",
		Requirement: 7,
		Type:        AchievementStreakDays,
	},
	{
		ID:          "token_collector_1000",
		Name:        "Token Collector",
		Description: "Earn 1000 tokens",
		Icon:        "💰",
		Requirement: 1000,
		Type:        AchievementTokensEarned,
	},
}
