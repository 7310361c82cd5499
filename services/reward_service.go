// services/reward_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"token-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardService struct {
	DB       *gorm.DB
	Profiles *ProfileService
}

func NewRewardService(db *gorm.DB, profiles *ProfileService) *RewardService {
	return &RewardService{DB: db, Profiles: profiles}
}

// purchaseWriter is the persistence surface the purchase flow writes to,
// in the order it writes.
type purchaseWriter interface {
	ApplyBalance(profile *models.UserProfile, amount int64, op BalanceOp) error
	CreateTransaction(*models.Transaction) error
}

var errInsufficientBalance = errors.New("insufficient token balance")

// processPurchase validates affordability before touching the store, then
// debits the balance and appends the spent ledger row. An unaffordable
// purchase performs no writes at all. The debit and the ledger row are
// separate writes with no rollback between them.
func processPurchase(w purchaseWriter, profile *models.UserProfile, reward *models.Reward) (*models.Transaction, error) {
	if profile.TokenBalance < reward.TokenCost {
		return nil, errInsufficientBalance
	}

	if err := w.ApplyBalance(profile, reward.TokenCost, BalanceSubtract); err != nil {
		return nil, fmt.Errorf("%w: %v", errUpdateBalance, err)
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      profile.ID,
		Type:        models.TransactionSpent,
		Amount:      reward.TokenCost,
		Description: fmt.Sprintf("Purchased: %s", reward.Name),
	}
	if err := w.CreateTransaction(txn); err != nil {
		return nil, fmt.Errorf("%w: %v", errRecordTransaction, err)
	}
	return txn, nil
}

func (s *RewardService) ApplyBalance(profile *models.UserProfile, amount int64, op BalanceOp) error {
	return s.Profiles.UpdateTokenBalance(profile, amount, op)
}

func (s *RewardService) CreateTransaction(txn *models.Transaction) error {
	return s.DB.Create(txn).Error
}

// ListRewards returns available store items, cheapest first. Supports an
// optional `category` filter.
func (s *RewardService) ListRewards(c *fiber.Ctx) error {
	category := c.Query("category")

	query := s.DB.Where("is_available = ?", true).Order("token_cost ASC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var rewards []models.Reward
	if err := query.Find(&rewards).Error; err != nil {
		log.Printf("❌ [REWARDS] DB error listing rewards: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch rewards"})
	}
	return c.JSON(rewards)
}

// PurchaseReward debits the user's balance and appends a spent ledger row.
// Affordability is validated before any write; an unaffordable purchase
// leaves the store untouched. The debit and the ledger row are separate
// writes with no rollback between them, and rewards remain repeatedly
// purchasable: each purchase is just another ledger event.
func (s *RewardService) PurchaseReward(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	email, _ := c.Locals("user_email").(string)
	username, _ := c.Locals("user_name").(string)

	rewardID := c.Params("id")
	if _, err := uuid.Parse(rewardID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		}
		log.Printf("❌ [REWARDS] DB error fetching reward %s: %v", rewardID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if !reward.IsAvailable {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reward is not available"})
	}

	profile, err := s.Profiles.EnsureProfile(userID, email, username)
	if err != nil {
		log.Printf("❌ [REWARDS] Profile fetch failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch profile"})
	}

	if _, err := processPurchase(s, profile, &reward); err != nil {
		if errors.Is(err, errInsufficientBalance) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":         errInsufficientBalance.Error(),
				"token_balance": profile.TokenBalance,
				"token_cost":    reward.TokenCost,
			})
		}
		log.Printf("⚠️ [REWARDS] Purchase flow failed for %s (reward %s): %v", userID, reward.ID, err)
		msg := errUpdateBalance.Error()
		if errors.Is(err, errRecordTransaction) {
			msg = errRecordTransaction.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
	}

	log.Printf("🛒 [REWARDS] %s purchased %q (-%d tokens → %d)", userID, reward.Name, reward.TokenCost, profile.TokenBalance)
	return c.JSON(fiber.Map{
		"message":       "purchase successful",
		"reward":        reward,
		"token_balance": profile.TokenBalance,
	})
}
