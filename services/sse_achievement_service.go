package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"token-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamUserAchievementsSSE streams achievement grants for the authenticated
// user as they land in the store. The cursor is the grant timestamp, so a
// grant written by any other request (or instance) shows up within one poll.
func (s *AchievementService) StreamUserAchievementsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	catalog := make(map[string]models.Achievement, len(models.AchievementCatalog))
	for _, a := range models.AchievementCatalog {
		catalog[a.ID] = a
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastEarnedAt time.Time

		// Initialize cursor at the newest existing grant
		var latest models.UserAchievement
		if err := s.DB.
			Where("user_id = ?", userID).
			Order("earned_at DESC").
			First(&latest).Error; err == nil {
			lastEarnedAt = latest.EarnedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var newGrants []models.UserAchievement

				err := s.DB.
					Where("user_id = ? AND earned_at > ?", userID, lastEarnedAt).
					Order("earned_at ASC").
					Find(&newGrants).Error
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}

				if len(newGrants) == 0 {
					continue
				}

				lastEarnedAt = newGrants[len(newGrants)-1].EarnedAt

				for _, g := range newGrants {
					status := AchievementStatus{Earned: true}
					if entry, ok := catalog[g.AchievementID]; ok {
						status.Achievement = entry
					} else {
						status.Achievement = models.Achievement{ID: g.AchievementID}
					}
					at := g.EarnedAt
					status.EarnedAt = &at

					payload, _ := json.Marshal(status)
					fmt.Fprintf(w, "event: achievement\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
