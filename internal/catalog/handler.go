package catalog

import (
	"strings"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Available   bool   `json:"available"`
	ImageURL    string `json:"image_url"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Stock       *int    `json:"stock"`
	Available   *bool   `json:"available"`
	ImageURL    *string `json:"image_url"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Available:   p.Available,
		ImageURL:    p.ImageURL,
	}
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
	}
	return price, nil
}

// GET /api/merchant/products
func ListMyProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("shop_id = ?", shopID).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/merchant/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		price, err := parsePrice(body.Price)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "price is not a valid amount")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
		}

		p := models.Product{
			ShopID:      shopID,
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
			Price:       price,
			Stock:       body.Stock,
			Available:   true,
			ImageURL:    strings.TrimSpace(body.ImageURL),
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

// PUT /api/merchant/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.
			Where("id = ? AND shop_id = ?", c.Params("id"), shopID).
			First(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			p.Name = name
		}
		if body.Description != nil {
			p.Description = strings.TrimSpace(*body.Description)
		}
		if body.Price != nil {
			price, err := parsePrice(*body.Price)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "price is not a valid amount")
			}
			p.Price = price
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
			}
			p.Stock = *body.Stock
		}
		if body.Available != nil {
			p.Available = *body.Available
		}
		if body.ImageURL != nil {
			p.ImageURL = strings.TrimSpace(*body.ImageURL)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update product")
		}

		return c.JSON(toProductResponse(p))
	}
}

// DELETE /api/merchant/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		result := database.DB.
			Where("id = ? AND shop_id = ?", c.Params("id"), shopID).
			Delete(&models.Product{})
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete product")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
