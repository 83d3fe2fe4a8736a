package cart

import (
	"errors"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddItemRequest struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

type UpdateItemRequest struct {
	Qty int `json:"qty"`
}

type ItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	UnitPrice   string `json:"unit_price"`
	SubTotal    string `json:"sub_total"`
}

type CartResponse struct {
	ShopID *uint          `json:"shop_id"`
	Items  []ItemResponse `json:"items"`
	Total  string         `json:"total"`
}

func toCartResponse(cart *models.Cart) CartResponse {
	items := make([]ItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		res := ItemResponse{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice.StringFixed(2),
			SubTotal:  item.SubTotal.StringFixed(2),
		}
		if item.Product != nil {
			res.ProductName = item.Product.Name
		}
		items = append(items, res)
	}
	return CartResponse{
		ShopID: cart.ShopID,
		Items:  items,
		Total:  Total(cart).StringFixed(2),
	}
}

// GET /api/cart
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		cart, err := NewService(database.DB).View(userID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// POST /api/cart/items
func AddItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		cart, err := NewService(database.DB).AddItem(userID, body.ProductID, body.Qty)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// PUT /api/cart/items/:productId
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("productId")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		cart, err := NewService(database.DB).UpdateQty(userID, uint(productID), body.Qty)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/cart/items/:productId
func RemoveItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("productId")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		cart, err := NewService(database.DB).RemoveItem(userID, uint(productID))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/cart
func ClearCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		cart, err := NewService(database.DB).Clear(userID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQty):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrDifferentShop):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
