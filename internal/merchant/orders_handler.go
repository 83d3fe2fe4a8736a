package merchant

import (
	"fmt"
	"strings"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/checkout"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Forward-only order lifecycle. Cancellation is allowed while the shop
// has not started preparing.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderAccepted, models.OrderCancelled},
	models.OrderAccepted:   {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing:  {models.OrderDelivering},
	models.OrderDelivering: {models.OrderCompleted},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GET /api/merchant/orders?status=
func ListShopOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items").Where("shop_id = ?", shopID)
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			dbq = dbq.Where("status = ?", strings.ToLower(status))
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list orders")
		}

		res := make([]checkout.OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, checkout.ToOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/merchant/orders/:id/status
func UpdateOrderStatusHandler(notifier Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.Preload("Items").
			Where("id = ? AND shop_id = ?", c.Params("id"), shopID).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		next := models.OrderStatus(strings.ToLower(strings.TrimSpace(body.Status)))
		if !CanTransition(order.Status, next) {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}

		if err := database.DB.Model(&order).Update("status", next).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update order")
		}
		order.Status = next

		if notifier != nil {
			notifier.Notify(order.UserID, models.NotifyOrderStatus,
				fmt.Sprintf("Order %s is now %s", order.Number, next),
				fmt.Sprintf("Your order %s moved to %s.", order.Number, next))
		}

		return c.JSON(checkout.ToOrderResponse(&order))
	}
}
