package services

import (
	"log"
	"sync"
	"time"

	"token-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreakService is the I/O shell around ComputeStreak. There is no persisted
// streak counter: every read re-derives the metrics from the user's raw
// completion rows. The last derived view is cached per user so the minute
// tick can refresh time-remaining without touching the store, and so a read
// that fails at the store can fall back to stale data.
type StreakService struct {
	DB *gorm.DB

	mu    sync.RWMutex
	cache map[string]StreakData
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{
		DB:    db,
		cache: make(map[string]StreakData),
	}
}

// GetUserStreaks returns the streak view for the authenticated user.
func (s *StreakService) GetUserStreaks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var stamps []time.Time
	if err := s.DB.Model(&models.UserTask{}).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Pluck("completed_at", &stamps).Error; err != nil {
		log.Printf("❌ [STREAKS] DB error fetching completions for %s: %v", userID, err)

		// Serve the previously derived view when the store is unreachable.
		s.mu.RLock()
		stale, ok := s.cache[userID]
		s.mu.RUnlock()
		if ok {
			return c.JSON(stale)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch streak data",
		})
	}

	data := ComputeStreak(time.Now(), stamps)

	s.mu.Lock()
	s.cache[userID] = data
	s.mu.Unlock()

	return c.JSON(data)
}

// cacheEvictAfter is how long past the last completion a cached entry is kept.
// One reset window plus a day of grace for the stale-read fallback.
const cacheEvictAfter = 48 * time.Hour

// RefreshResetTimers recomputes only the time-remaining fields of cached
// entries from their stored last-completion timestamp, and evicts entries
// whose reset window expired past the grace period so the cache stays bounded
// by recently active users. An evicted user is re-derived on their next read.
// The streak counts are left untouched; re-deriving them would mean a store
// round-trip per user.
func (s *StreakService) RefreshResetTimers(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, data := range s.cache {
		if data.LastTaskDate == nil || now.Sub(*data.LastTaskDate) > cacheEvictAfter {
			delete(s.cache, userID)
			continue
		}
		data.TimeUntilReset, data.IsStreakActive = hoursUntilReset(now, *data.LastTaskDate)
		s.cache[userID] = data
	}
}
