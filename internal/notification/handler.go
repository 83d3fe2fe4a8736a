package notification

import (
	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// GET /api/notifications?unread=true
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("user_id = ?", userID)
		if c.Query("unread") == "true" {
			dbq = dbq.Where("read = ?", false)
		}

		var notifications []models.Notification
		if err := dbq.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list notifications")
		}

		res := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			res = append(res, NotificationResponse{
				ID:        n.ID,
				Type:      n.Type,
				Title:     n.Title,
				Body:      n.Body,
				Read:      n.Read,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

// PUT /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		result := database.DB.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			Update("read", true)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update notification")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
