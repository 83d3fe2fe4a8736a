package admin

import (
	"log"

	"raymarket-backend/internal/audit"
	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Role        models.UserRole `json:"role"`
	ShopID      *uint           `json:"shop_id"`
	Active      bool            `json:"active"`
	LastLoginAt string          `json:"last_login_at"`
	CreatedAt   string          `json:"created_at"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

func toUserResponse(u models.User) UserResponse {
	res := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		ShopID:    u.ShopID,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.LastLoginAt != nil {
		res.LastLoginAt = u.LastLoginAt.Format("2006-01-02 15:04:05")
	}
	return res
}

// actor resolves the acting admin for the audit trail.
func actor(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	email, _ := c.Locals(auth.CtxUserEmailKey).(string)
	return userID, email
}

// GET /api/admin/users?role=
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if role, ok := models.ParseRole(c.Query("role")); ok && c.Query("role") != "" {
			dbq = dbq.Where("role = ?", role)
		}

		var users []models.User
		if err := dbq.Order("created_at DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list users")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, toUserResponse(u))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/users/:id/active
func SetUserActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		var body SetActiveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		before := toUserResponse(user)
		if err := database.DB.Model(&user).Update("active", body.Active).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update user")
		}
		user.Active = body.Active

		actorID, actorEmail := actor(c)
		if err := audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			UserName:    actorEmail,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: "changed account active flag",
			Before:      before,
			After:       toUserResponse(user),
		}); err != nil {
			log.Printf("audit write failed: %v", err)
		}

		return c.JSON(toUserResponse(user))
	}
}
