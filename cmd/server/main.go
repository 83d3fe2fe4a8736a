package main

import (
	"log"
	"strings"

	"raymarket-backend/internal/admin"
	"raymarket-backend/internal/audit"
	"raymarket-backend/internal/auth"
	"raymarket-backend/internal/cart"
	"raymarket-backend/internal/catalog"
	"raymarket-backend/internal/checkout"
	"raymarket-backend/internal/config"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/merchant"
	"raymarket-backend/internal/models"
	"raymarket-backend/internal/notification"
	"raymarket-backend/internal/shop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	notifier := notification.NewPublisher(database.DB, cfg.RedisAddr)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/signup", auth.SignupHandler(cfg, notifier))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public storefront
	api.Get("/shops", shop.ListShopsHandler())
	api.Get("/shops/categories", shop.CategoriesHandler())
	api.Get("/shops/:slug", shop.GetShopHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Notifications (any authenticated user)
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Put("/notifications/:id/read", notification.MarkReadHandler())

	// Cart & checkout (customers; merchants and admins may order too)
	protected.Get("/cart", cart.GetCartHandler())
	protected.Post("/cart/items", cart.AddItemHandler())
	protected.Put("/cart/items/:productId", cart.UpdateItemHandler())
	protected.Delete("/cart/items/:productId", cart.RemoveItemHandler())
	protected.Delete("/cart", cart.ClearCartHandler())

	protected.Post("/checkout", checkout.CheckoutHandler(notifier))
	protected.Get("/orders", checkout.ListOrdersHandler())
	protected.Get("/orders/:id", checkout.GetOrderHandler())

	// Merchant dashboard
	merchantRoutes := protected.Group("/merchant")
	merchantRoutes.Use(auth.RequireRole(models.RoleMerchant))

	merchantRoutes.Get("/products", catalog.ListMyProductsHandler())
	merchantRoutes.Post("/products", catalog.CreateProductHandler())
	merchantRoutes.Post("/products/import", catalog.ImportProductsHandler())
	merchantRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	merchantRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	merchantRoutes.Get("/orders", merchant.ListShopOrdersHandler())
	merchantRoutes.Put("/orders/:id/status", merchant.UpdateOrderStatusHandler(notifier))

	merchantRoutes.Get("/dashboard/summary", merchant.SummaryHandler())
	merchantRoutes.Get("/dashboard/sales-chart", merchant.SalesChartHandler())

	// Admin console
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Put("/users/:id/active", admin.SetUserActiveHandler())

	adminRoutes.Get("/shops", admin.ListShopsHandler())
	adminRoutes.Put("/shops/:id/verify", admin.SetShopVerifiedHandler())
	adminRoutes.Put("/shops/:id/active", admin.SetShopActiveHandler())

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
