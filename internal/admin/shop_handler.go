package admin

import (
	"log"
	"strings"

	"raymarket-backend/internal/audit"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ShopResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Category    models.ShopCategory `json:"category"`
	Governorate string              `json:"governorate"`
	City        string              `json:"city"`
	OwnerID     uint                `json:"owner_id"`
	Verified    bool                `json:"verified"`
	Active      bool                `json:"active"`
	CreatedAt   string              `json:"created_at"`
}

type SetShopFlagRequest struct {
	Verified *bool `json:"verified"`
	Active   *bool `json:"active"`
}

func toShopResponse(s models.Shop) ShopResponse {
	return ShopResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Category:    s.Category,
		Governorate: s.Governorate,
		City:        s.City,
		OwnerID:     s.OwnerID,
		Verified:    s.Verified,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/admin/shops?verified=&category=
func ListShopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Shop{})

		switch c.Query("verified") {
		case "true":
			dbq = dbq.Where("verified = ?", true)
		case "false":
			dbq = dbq.Where("verified = ?", false)
		}
		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			dbq = dbq.Where("category = ?", models.NormalizeCategory(cat))
		}

		var shops []models.Shop
		if err := dbq.Order("created_at DESC").Find(&shops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list shops")
		}

		res := make([]ShopResponse, 0, len(shops))
		for _, s := range shops {
			res = append(res, toShopResponse(s))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/shops/:id/verify
func SetShopVerifiedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setShopFlag(c, "verified")
	}
}

// PUT /api/admin/shops/:id/active
func SetShopActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return setShopFlag(c, "active")
	}
}

func setShopFlag(c *fiber.Ctx, column string) error {
	var shop models.Shop
	if err := database.DB.First(&shop, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "shop not found")
	}

	var body SetShopFlagRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var value bool
	switch {
	case column == "verified" && body.Verified != nil:
		value = *body.Verified
	case column == "active" && body.Active != nil:
		value = *body.Active
	default:
		return fiber.NewError(fiber.StatusBadRequest, column+" field is required")
	}

	before := toShopResponse(shop)
	if err := database.DB.Model(&shop).Update(column, value).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update shop")
	}
	if column == "active" {
		shop.Active = value
	} else {
		shop.Verified = value
	}

	actorID, actorEmail := actor(c)
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      actorID,
		UserName:    actorEmail,
		EntityType:  "shop",
		EntityID:    shop.ID,
		Action:      models.AuditActionUpdate,
		Description: "changed shop " + column + " flag",
		Before:      before,
		After:       toShopResponse(shop),
	}); err != nil {
		log.Printf("audit write failed: %v", err)
	}

	return c.JSON(toShopResponse(shop))
}
