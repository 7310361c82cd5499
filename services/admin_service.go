package services

import (
	"errors"
	"log"
	"math"
	"path/filepath"
	"time"

	"token-rewards-system/models"
	"token-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// completionRate is completions over task count as a rounded percentage.
// Duplicate completions can push this past 100.
func completionRate(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// averageTokensPerCompletion rounds to the nearest whole token.
func averageTokensPerCompletion(tokensDistributed, completed int64) int64 {
	if completed <= 0 {
		return 0
	}
	return int64(math.Round(float64(tokensDistributed) / float64(completed)))
}

// GetStats aggregates platform-wide counts for the admin dashboard.
func (s *AdminService) GetStats(c *fiber.Ctx) error {
	var totalUsers, totalTasks, completedTasks int64
	if err := s.DB.Model(&models.UserProfile{}).Count(&totalUsers).Error; err != nil {
		log.Printf("❌ [ADMIN] Count users failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count users"})
	}
	if err := s.DB.Model(&models.Task{}).Count(&totalTasks).Error; err != nil {
		log.Printf("❌ [ADMIN] Count tasks failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count tasks"})
	}
	if err := s.DB.Model(&models.UserTask{}).Count(&completedTasks).Error; err != nil {
		log.Printf("❌ [ADMIN] Count completions failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count completions"})
	}

	var tokensDistributed int64
	if err := s.DB.Model(&models.Transaction{}).
		Where("type = ?", models.TransactionEarned).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&tokensDistributed).Error; err != nil {
		log.Printf("❌ [ADMIN] Sum earned transactions failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sum transactions"})
	}

	// Active users: distinct completers over the last 7 days.
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var activeUsers int64
	if err := s.DB.Model(&models.UserTask{}).
		Where("completed_at >= ?", sevenDaysAgo).
		Distinct("user_id").
		Count(&activeUsers).Error; err != nil {
		log.Printf("❌ [ADMIN] Count active users failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count active users"})
	}

	// Per-category task counts with display labels.
	type categoryCount struct {
		Category string `json:"-"`
		Label    string `json:"label"`
		Count    int64  `json:"count"`
	}
	var byCategory []categoryCount
	if err := s.DB.Model(&models.Task{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&byCategory).Error; err != nil {
		log.Printf("❌ [ADMIN] Category counts failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count categories"})
	}
	titler := cases.Title(language.English)
	for i := range byCategory {
		byCategory[i].Label = titler.String(byCategory[i].Category)
	}

	return c.JSON(fiber.Map{
		"total_users":         totalUsers,
		"total_tasks":         totalTasks,
		"completed_tasks":     completedTasks,
		"tokens_distributed":  tokensDistributed,
		"active_users":        activeUsers,
		"completion_rate":     completionRate(completedTasks, totalTasks),
		"avg_tokens_per_task": averageTokensPerCompletion(tokensDistributed, completedTasks),
		"tasks_by_category":   byCategory,
	})
}

func validDifficulty(d models.TaskDifficulty) bool {
	switch d {
	case models.TaskDifficultyEasy, models.TaskDifficultyMedium, models.TaskDifficultyHard, models.TaskDifficultyLegendary:
		return true
	}
	return false
}

// CreateTask creates a new task (admin only).
func (s *AdminService) CreateTask(c *fiber.Ctx) error {
	var req struct {
		Title            string                `json:"title"`
		Description      string                `json:"description"`
		TokenReward      int64                 `json:"token_reward"`
		Difficulty       models.TaskDifficulty `json:"difficulty"`
		Category         string                `json:"category"`
		IconURL          string                `json:"icon_url"`
		Deadline         *time.Time            `json:"deadline"`
		ParticipationCap *int                  `json:"participation_cap"`
		Requirements     []string              `json:"requirements"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Title == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and category are required"})
	}
	if req.TokenReward <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token_reward must be positive"})
	}
	if !validDifficulty(req.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be one of easy, medium, hard, legendary"})
	}

	requirements := make([]string, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		if r != "" {
			requirements = append(requirements, r)
		}
	}

	task := &models.Task{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Slug:             slug.Make(req.Title),
		Description:      req.Description,
		TokenReward:      req.TokenReward,
		Difficulty:       req.Difficulty,
		Category:         req.Category,
		IconURL:          req.IconURL,
		Deadline:         req.Deadline,
		ParticipationCap: req.ParticipationCap,
		Requirements:     requirements,
	}
	if err := s.DB.Create(task).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error creating task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create task"})
	}

	log.Printf("📋 [ADMIN] Task created: %q (%s, %d tokens)", task.Title, task.Difficulty, task.TokenReward)
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask applies a partial edit to an existing task (admin only).
func (s *AdminService) UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}

	var existing models.Task
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Title            *string                `json:"title"`
		Description      *string                `json:"description"`
		TokenReward      *int64                 `json:"token_reward"`
		Difficulty       *models.TaskDifficulty `json:"difficulty"`
		Category         *string                `json:"category"`
		IconURL          *string                `json:"icon_url"`
		Deadline         *time.Time             `json:"deadline"`
		ParticipationCap *int                   `json:"participation_cap"`
		Requirements     *[]string              `json:"requirements"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Title != nil {
		existing.Title = *req.Title
		existing.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.TokenReward != nil {
		if *req.TokenReward <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token_reward must be positive"})
		}
		existing.TokenReward = *req.TokenReward
	}
	if req.Difficulty != nil {
		if !validDifficulty(*req.Difficulty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid difficulty"})
		}
		existing.Difficulty = *req.Difficulty
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.IconURL != nil {
		existing.IconURL = *req.IconURL
	}
	if req.Deadline != nil {
		existing.Deadline = req.Deadline
	}
	if req.ParticipationCap != nil {
		existing.ParticipationCap = req.ParticipationCap
	}
	if req.Requirements != nil {
		existing.Requirements = *req.Requirements
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error updating task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update task"})
	}
	return c.JSON(existing)
}

// DeleteTask soft-deletes a task (admin only). Existing completions and
// ledger rows stay untouched.
func (s *AdminService) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}

	var task models.Task
	if err := s.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&task).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error deleting task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete task"})
	}
	return c.JSON(fiber.Map{"message": "task deleted"})
}

func validRewardCategory(cat models.RewardCategory) bool {
	switch cat {
	case models.RewardCategoryUpgrade, models.RewardCategoryCosmetic, models.RewardCategoryUtility, models.RewardCategoryExclusive:
		return true
	}
	return false
}

func validRarity(r models.RewardRarity) bool {
	switch r {
	case models.RewardRarityCommon, models.RewardRarityRare, models.RewardRarityEpic, models.RewardRarityLegendary:
		return true
	}
	return false
}

// CreateReward creates a new store item (admin only).
func (s *AdminService) CreateReward(c *fiber.Ctx) error {
	var req struct {
		Name        string                `json:"name"`
		Description string                `json:"description"`
		TokenCost   int64                 `json:"token_cost"`
		Category    models.RewardCategory `json:"category"`
		Rarity      models.RewardRarity   `json:"rarity"`
		ImageURL    string                `json:"image_url"`
		IsAvailable *bool                 `json:"is_available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if req.TokenCost <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token_cost must be positive"})
	}
	if !validRewardCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category must be one of upgrade, cosmetic, utility, exclusive"})
	}
	if req.Rarity == "" {
		req.Rarity = models.RewardRarityCommon
	}
	if !validRarity(req.Rarity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rarity must be one of common, rare, epic, legendary"})
	}

	reward := &models.Reward{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		TokenCost:   req.TokenCost,
		Category:    req.Category,
		Rarity:      req.Rarity,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		reward.IsAvailable = *req.IsAvailable
	}
	if err := s.DB.Create(reward).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create reward"})
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

// UpdateReward applies a partial edit to a store item (admin only).
func (s *AdminService) UpdateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward ID"})
	}

	var existing models.Reward
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name        *string                `json:"name"`
		Description *string                `json:"description"`
		TokenCost   *int64                 `json:"token_cost"`
		Category    *models.RewardCategory `json:"category"`
		Rarity      *models.RewardRarity   `json:"rarity"`
		ImageURL    *string                `json:"image_url"`
		IsAvailable *bool                  `json:"is_available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.TokenCost != nil {
		if *req.TokenCost <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token_cost must be positive"})
		}
		existing.TokenCost = *req.TokenCost
	}
	if req.Category != nil {
		if !validRewardCategory(*req.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
		existing.Category = *req.Category
	}
	if req.Rarity != nil {
		if !validRarity(*req.Rarity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid rarity"})
		}
		existing.Rarity = *req.Rarity
	}
	if req.ImageURL != nil {
		existing.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		existing.IsAvailable = *req.IsAvailable
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error updating reward %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update reward"})
	}
	return c.JSON(existing)
}

// DeleteReward soft-deletes a store item (admin only).
func (s *AdminService) DeleteReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&reward).Error; err != nil {
		log.Printf("❌ [ADMIN] DB error deleting reward %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete reward"})
	}
	return c.JSON(fiber.Map{"message": "reward deleted"})
}

// UploadIcon stores a small icon asset for tasks/rewards and returns its
// public URL. Goes to R2 when configured, otherwise to the local uploads dir.
func (s *AdminService) UploadIcon(c *fiber.Ctx) error {
	iconFile, err := c.FormFile("icon")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
	}
	if iconFile.Size > 5*1024*1024 { // 5MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 5MB)"})
	}

	ext := filepath.Ext(iconFile.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := "icons/" + uuid.NewString() + ext

	if utils.R2Enabled() {
		url, err := utils.UploadFileToR2(iconFile, key)
		if err != nil {
			log.Printf("❌ [ADMIN] R2 upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload icon"})
		}
		return c.JSON(fiber.Map{"url": url})
	}

	localPath := utils.GetUploadPath(key)
	if err := utils.SaveFile(iconFile, localPath); err != nil {
		log.Printf("❌ [ADMIN] Local icon save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save icon"})
	}
	return c.JSON(fiber.Map{"url": "/" + localPath})
}
