package models

import "time"

// TaskDifficulty grades how demanding a task is
type TaskDifficulty string

const (
	TaskDifficultyEasy      TaskDifficulty = "easy"
	TaskDifficultyMedium    TaskDifficulty = "medium"
	TaskDifficultyHard      TaskDifficulty = "hard"
	TaskDifficultyLegendary TaskDifficulty = "legendary"
)

// Task is a completable unit of work worth a fixed token reward.
// Immutable once referenced by completions except via admin edit/delete.
type Task struct {
	ID          string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"index" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	TokenReward int64          `gorm:"not null" json:"token_reward"`
	Difficulty  TaskDifficulty `gorm:"type:varchar(16);not null;check:difficulty IN ('easy','medium','hard','legendary')" json:"difficulty"`
	Category    string         `gorm:"index;not null" json:"category"`
	IconURL     string         `gorm:"type:text" json:"icon_url,omitempty"`

	Deadline         *time.Time `json:"deadline,omitempty"`
	ParticipationCap *int       `json:"participation_cap,omitempty"`
	Requirements     []string   `gorm:"type:jsonb;serializer:json" json:"requirements,omitempty"`

	Timestamps
}

// UserTask records one completion of a task by a user, with the tokens
// awarded at completion time (the task's reward may be edited later).
//
// Nothing enforces one row per (user, task); two concurrent completes from
// separate sessions both succeed and double-credit tokens.
type UserTask struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"index;not null;type:uuid" json:"user_id"`
	TaskID       string    `gorm:"index;not null;type:uuid" json:"task_id"`
	TokensEarned int64     `gorm:"not null" json:"tokens_earned"`
	CompletedAt  time.Time `gorm:"autoCreateTime;index" json:"completed_at"`
}
