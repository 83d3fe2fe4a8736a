package auth

import (
	"errors"

	"raymarket-backend/internal/config"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/auth/signup
func SignupHandler(cfg *config.Config, notifier Notifier) fiber.Handler {
	svc := NewService(database.DB, cfg, notifier)
	return func(c *fiber.Ctx) error {
		var body SignupInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		res, err := svc.Signup(body)
		if err != nil {
			return toHTTPError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	svc := NewService(database.DB, cfg, nil)
	return func(c *fiber.Ctx) error {
		var body LoginInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		res, err := svc.Login(body)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(res)
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Shop").First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
		}

		res := fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"phone":  user.Phone,
			"role":   user.Role,
			"shopId": user.ShopID,
		}
		if user.Shop != nil {
			res["shop"] = fiber.Map{
				"id":       user.Shop.ID,
				"name":     user.Shop.Name,
				"slug":     user.Shop.Slug,
				"category": user.Shop.Category,
				"verified": user.Shop.Verified,
			}
		}

		return c.JSON(res)
	}
}

// toHTTPError maps service error categories to stable HTTP statuses:
// bad input 400, conflict 409, unauthorized 401. Anything else stays
// internal and is handled by the app-level error handler.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	default:
		return err
	}
}
