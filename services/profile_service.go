package services

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"token-rewards-system/models"
	"token-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// EnsureProfile fetches the profile row for an identity, creating a default
// one seeded with the starting balance when none exists yet (first login).
// Not-found is the only error handled locally; anything else surfaces to the
// caller untouched.
func (s *ProfileService) EnsureProfile(userID, email, username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if username == "" {
			username = strings.SplitN(email, "@", 2)[0]
		}
		profile = models.UserProfile{
			ID:           userID,
			Email:        email,
			Username:     username,
			TokenBalance: models.StartingTokenBalance,
			Level:        1,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		log.Printf("✨ [PROFILE] Bootstrapped profile for %s (%s)", username, userID)
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateTokenBalance applies the pure adjustment and persists the new value.
// The caller writes the matching ledger row; the two writes are separate
// statements with no shared transaction.
func (s *ProfileService) UpdateTokenBalance(profile *models.UserProfile, amount int64, op BalanceOp) error {
	newBalance := AdjustBalance(profile.TokenBalance, amount, op)
	if err := s.DB.Model(&models.UserProfile{}).
		Where("id = ?", profile.ID).
		Update("token_balance", newBalance).Error; err != nil {
		return err
	}
	profile.TokenBalance = newBalance
	return nil
}

// GetProfile returns (and lazily creates) the authenticated user's profile.
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	email, _ := c.Locals("user_email").(string)
	username, _ := c.Locals("user_name").(string)

	profile, err := s.EnsureProfile(userID, email, username)
	if err != nil {
		log.Printf("❌ [PROFILE] Fetch failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch profile",
		})
	}
	return c.JSON(profile)
}

// GetUserTransactions returns the user's ledger page, newest first.
func (s *ProfileService) GetUserTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	var transactions []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		log.Printf("❌ [PROFILE] DB error fetching transactions for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch transactions",
		})
	}
	return c.JSON(transactions)
}

// GetUserWallets returns the mirrored wallet links for the user. The rows are
// owned by the external wallet service and only read here.
func (s *ProfileService) GetUserWallets(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	wallets, err := workers.GetWalletsByUser(s.DB, userID)
	if err != nil {
		log.Printf("❌ [PROFILE] DB error fetching wallets for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch wallets",
		})
	}
	return c.JSON(wallets)
}
