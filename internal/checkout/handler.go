package checkout

import (
	"errors"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	UnitPrice   string `json:"unit_price"`
	SubTotal    string `json:"sub_total"`
}

type OrderResponse struct {
	ID              uint               `json:"id"`
	Number          string             `json:"number"`
	ShopID          uint               `json:"shop_id"`
	Status          models.OrderStatus `json:"status"`
	SubTotal        string             `json:"sub_total"`
	DeliveryFee     string             `json:"delivery_fee"`
	Total           string             `json:"total"`
	Governorate     string             `json:"governorate"`
	City            string             `json:"city"`
	AddressDetailed string             `json:"address_detailed"`
	Phone           string             `json:"phone"`
	CreatedAt       string             `json:"created_at"`
	Items           []ItemResponse     `json:"items"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			SubTotal:    item.SubTotal.StringFixed(2),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		ShopID:          o.ShopID,
		Status:          o.Status,
		SubTotal:        o.SubTotal.StringFixed(2),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		Total:           o.Total.StringFixed(2),
		Governorate:     o.Governorate,
		City:            o.City,
		AddressDetailed: o.AddressDetailed,
		Phone:           o.Phone,
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:           items,
	}
}

// POST /api/checkout
func CheckoutHandler(notifier Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body Input
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := NewService(database.DB, notifier).Checkout(userID, body)
		if err != nil {
			switch {
			case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyCart):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(ToOrderResponse(order))
	}
}

// GET /api/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var orders []models.Order
		if err := database.DB.
			Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list orders")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, ToOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/orders/:id — visible to the buyer, the shop's merchant, and
// admins.
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		shopID, _ := c.Locals(auth.CtxShopIDKey).(*uint)

		allowed := order.UserID == userID ||
			role == models.RoleAdmin ||
			(role == models.RoleMerchant && shopID != nil && *shopID == order.ShopID)
		if !allowed {
			return fiber.NewError(fiber.StatusForbidden, "not your order")
		}

		return c.JSON(ToOrderResponse(&order))
	}
}
