package merchant

import (
	"time"

	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Notifier mirrors notification.Publisher; handlers get it injected so
// the package stays decoupled from the transport.
type Notifier interface {
	Notify(userID uint, typ, title, body string)
}

type SummaryResponse struct {
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	TotalOrders    int64                        `json:"total_orders"`
	Revenue        string                       `json:"revenue"`
	ProductCount   int64                        `json:"product_count"`
}

type SalesPoint struct {
	Label   string `json:"label"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type SalesChartResponse struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Points []SalesPoint `json:"points"`
}

// GET /api/merchant/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		type statusRow struct {
			Status models.OrderStatus
			N      int64
		}
		var rows []statusRow
		if err := database.DB.Model(&models.Order{}).
			Select("status, COUNT(*) as n").
			Where("shop_id = ?", shopID).
			Group("status").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to aggregate orders")
		}

		byStatus := make(map[models.OrderStatus]int64, len(rows))
		var total int64
		for _, r := range rows {
			byStatus[r.Status] = r.N
			total += r.N
		}

		// Revenue is summed in Go: decimal columns are stored as
		// numeric text under the test driver, SQL SUM is not portable.
		var completed []models.Order
		if err := database.DB.
			Where("shop_id = ? AND status = ?", shopID, models.OrderCompleted).
			Find(&completed).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to aggregate revenue")
		}
		revenue := decimal.Zero
		for _, o := range completed {
			revenue = revenue.Add(o.Total)
		}

		var productCount int64
		if err := database.DB.Model(&models.Product{}).
			Where("shop_id = ?", shopID).
			Count(&productCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to count products")
		}

		return c.JSON(SummaryResponse{
			OrdersByStatus: byStatus,
			TotalOrders:    total,
			Revenue:        revenue.StringFixed(2),
			ProductCount:   productCount,
		})
	}
}

// GET /api/merchant/dashboard/sales-chart?days=30
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := auth.ShopID(c)
		if err != nil {
			return err
		}

		days := c.QueryInt("days", 30)
		if days <= 0 || days > 365 {
			return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 365")
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		start := end.AddDate(0, 0, -days)

		var orders []models.Order
		if err := database.DB.
			Where("shop_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
				shopID, models.OrderCompleted, start, end).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load sales data")
		}

		type bucket struct {
			orders  int
			revenue decimal.Decimal
		}
		buckets := make(map[string]*bucket)
		for _, o := range orders {
			label := o.CreatedAt.In(loc).Format("2006-01-02")
			b, ok := buckets[label]
			if !ok {
				b = &bucket{revenue: decimal.Zero}
				buckets[label] = b
			}
			b.orders++
			b.revenue = b.revenue.Add(o.Total)
		}

		// Emit one point per day, zero-filled, oldest first.
		points := make([]SalesPoint, 0, days)
		for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
			label := day.Format("2006-01-02")
			point := SalesPoint{Label: label, Revenue: "0.00"}
			if b, ok := buckets[label]; ok {
				point.Orders = b.orders
				point.Revenue = b.revenue.StringFixed(2)
			}
			points = append(points, point)
		}

		return c.JSON(SalesChartResponse{
			From:   start.Format("2006-01-02"),
			To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
			Points: points,
		})
	}
}
