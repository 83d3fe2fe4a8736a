package shop

import (
	"strings"

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
	Description string              `json:"description"`
	Verified    bool                `json:"verified"`
}

type ShopDetailResponse struct {
	ShopResponse
	AddressDetailed string            `json:"address_detailed"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	OpeningHours    string            `json:"opening_hours"`
	Products        []ProductResponse `json:"products"`
}

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
}

func toShopResponse(s models.Shop) ShopResponse {
	return ShopResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Category:    s.Category,
		Governorate: s.Governorate,
		City:        s.City,
		Description: s.Description,
		Verified:    s.Verified,
	}
}

// GET /api/shops?category=&governorate=&q=
func ListShopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Shop{}).
			Where("active = ? AND verified = ?", true, true)

		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			dbq = dbq.Where("category = ?", models.NormalizeCategory(cat))
		}
		if gov := strings.TrimSpace(c.Query("governorate")); gov != "" {
			dbq = dbq.Where("governorate = ?", gov)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("name LIKE ?", "%"+q+"%")
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

// GET /api/shops/categories
func CategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.ShopCategories)
	}
}

// GET /api/shops/:slug
func GetShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")

		var shop models.Shop
		if err := database.DB.
			Preload("Products", "available = ?", true).
			Where("slug = ? AND active = ?", slug, true).
			First(&shop).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}

		products := make([]ProductResponse, 0, len(shop.Products))
		for _, p := range shop.Products {
			products = append(products, ProductResponse{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price.StringFixed(2),
				Stock:       p.Stock,
				ImageURL:    p.ImageURL,
			})
		}

		res := ShopDetailResponse{
			ShopResponse:    toShopResponse(shop),
			AddressDetailed: shop.AddressDetailed,
			Phone:           shop.Phone,
			Email:           shop.Email,
			OpeningHours:    shop.OpeningHours,
			Products:        products,
		}
		return c.JSON(res)
	}
}
