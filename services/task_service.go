package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"token-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService struct {
	DB       *gorm.DB
	Profiles *ProfileService
}

func NewTaskService(db *gorm.DB, profiles *ProfileService) *TaskService {
	return &TaskService{DB: db, Profiles: profiles}
}

// TaskView is a task merged with the calling user's completion state.
type TaskView struct {
	models.Task
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// completionWriter is the persistence surface the completion flow writes to,
// in the order it writes.
type completionWriter interface {
	CreateCompletion(*models.UserTask) error
	CreateTransaction(*models.Transaction) error
	ApplyBalance(profile *models.UserProfile, amount int64, op BalanceOp) error
}

var (
	errRecordCompletion  = errors.New("failed to record completion")
	errRecordTransaction = errors.New("failed to record transaction")
	errUpdateBalance     = errors.New("failed to update balance")
)

// recordCompletion runs the three completion writes in order: completion row
// with the reward frozen at completion time, earned ledger row, balance
// credit. A failure stops the flow but earlier writes stay in place; there is
// no rollback. Repeat completions of the same task are not blocked.
func recordCompletion(w completionWriter, profile *models.UserProfile, task *models.Task) (*models.UserTask, error) {
	completion := &models.UserTask{
		ID:           uuid.NewString(),
		UserID:       profile.ID,
		TaskID:       task.ID,
		TokensEarned: task.TokenReward,
	}
	if err := w.CreateCompletion(completion); err != nil {
		return nil, fmt.Errorf("%w: %v", errRecordCompletion, err)
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      profile.ID,
		Type:        models.TransactionEarned,
		Amount:      task.TokenReward,
		Description: fmt.Sprintf("Completed task: %s", task.Title),
	}
	if err := w.CreateTransaction(txn); err != nil {
		return completion, fmt.Errorf("%w: %v", errRecordTransaction, err)
	}

	if err := w.ApplyBalance(profile, task.TokenReward, BalanceAdd); err != nil {
		return completion, fmt.Errorf("%w: %v", errUpdateBalance, err)
	}
	return completion, nil
}

func (s *TaskService) CreateCompletion(ut *models.UserTask) error {
	return s.DB.Create(ut).Error
}

func (s *TaskService) CreateTransaction(txn *models.Transaction) error {
	return s.DB.Create(txn).Error
}

func (s *TaskService) ApplyBalance(profile *models.UserProfile, amount int64, op BalanceOp) error {
	return s.Profiles.UpdateTokenBalance(profile, amount, op)
}

// ListTasks returns all tasks newest first, merged with the authenticated
// user's completions. Supports `category` and `q` (title/description search)
// query filters.
func (s *TaskService) ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	category := c.Query("category")
	search := c.Query("q")

	query := s.DB.Order("created_at DESC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		log.Printf("❌ [TASKS] DB error listing tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tasks"})
	}

	var completions []models.UserTask
	if err := s.DB.Where("user_id = ?", userID).Find(&completions).Error; err != nil {
		log.Printf("❌ [TASKS] DB error fetching completions for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch completions"})
	}

	completedAt := make(map[string]time.Time, len(completions))
	for _, ut := range completions {
		if _, ok := completedAt[ut.TaskID]; !ok {
			completedAt[ut.TaskID] = ut.CompletedAt
		}
	}

	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = TaskView{Task: task}
		if at, ok := completedAt[task.ID]; ok {
			views[i].IsCompleted = true
			at := at
			views[i].CompletedAt = &at
		}
	}
	return c.JSON(views)
}

// CompleteTask records a completion and credits the reward. Three separate
// writes: completion row, earned ledger row, balance update. A failure
// between steps leaves partial state behind; earlier steps are not rolled
// back. Repeat completions of the same task are not blocked.
func (s *TaskService) CompleteTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	email, _ := c.Locals("user_email").(string)
	username, _ := c.Locals("user_name").(string)

	taskID := c.Params("id")
	if _, err := uuid.Parse(taskID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}

	var task models.Task
	if err := s.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		log.Printf("❌ [TASKS] DB error fetching task %s: %v", taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	profile, err := s.Profiles.EnsureProfile(userID, email, username)
	if err != nil {
		log.Printf("❌ [TASKS] Profile fetch failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch profile"})
	}

	completion, err := recordCompletion(s, profile, &task)
	if err != nil {
		log.Printf("⚠️ [TASKS] Completion flow failed for %s on %s: %v", userID, task.ID, err)
		msg := errRecordCompletion.Error()
		switch {
		case errors.Is(err, errRecordTransaction):
			msg = errRecordTransaction.Error()
		case errors.Is(err, errUpdateBalance):
			msg = errUpdateBalance.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
	}

	log.Printf("✅ [TASKS] %s completed %q (+%d tokens → %d)", userID, task.Title, task.TokenReward, profile.TokenBalance)
	return c.JSON(fiber.Map{
		"message":       "task completed",
		"completion":    completion,
		"tokens_earned": task.TokenReward,
		"token_balance": profile.TokenBalance,
	})
}
