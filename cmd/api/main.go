package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/handler"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/store"
	"go-stocktrack/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config (env + optional .env)
	cfg := config.Load()

	// 2. Open the flat-file store
	st, err := store.New(cfg.DataDir, nil)
	if err != nil {
		log.Fatal("Failed to open data store: ", err)
	}

	// 3. Websocket hub for live stock updates
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency injection (wiring layers)
	invService := service.NewInventoryService(st, wsHub)
	reportService := service.NewReportService(st)

	invHandler := handler.NewInventoryHandler(invService, cfg.LowStockThreshold)
	dashHandler := handler.NewDashboardHandler(reportService, cfg)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stocktrack v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Dashboard
	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// Products
	api.Get("/products", invHandler.GetProducts)
	api.Post("/products", invHandler.CreateProduct)
	api.Get("/products/search", invHandler.SearchProducts)
	api.Get("/products/low-stock", invHandler.GetLowStockProducts)
	api.Get("/products/:id", invHandler.GetProduct)
	api.Put("/products/:id", invHandler.UpdateProduct)
	api.Delete("/products/:id", invHandler.DeleteProduct)
	api.Post("/products/:id/add-stock", invHandler.AddStock)
	api.Post("/products/:id/remove-stock", invHandler.RemoveStock)

	// Categories
	api.Get("/categories", invHandler.GetCategories)
	api.Post("/categories", invHandler.CreateCategory)
	api.Get("/categories/:id", invHandler.GetCategory)
	api.Put("/categories/:id", invHandler.UpdateCategory)
	api.Delete("/categories/:id", invHandler.DeleteCategory)

	// Transactions
	api.Get("/transactions", invHandler.GetTransactions)
	api.Get("/transactions/:id", invHandler.GetTransaction)

	// Reports
	api.Get("/reports/valuation", dashHandler.GetValuationReport)
	api.Get("/reports/low-stock", dashHandler.GetLowStockReport)
	api.Get("/reports/reorder", dashHandler.GetReorderReport)
	api.Get("/reports/category-performance", dashHandler.GetCategoryPerformance)

	// Legacy read-only endpoints, kept at their original paths
	app.Get("/api/products", invHandler.GetProducts)
	app.Get("/api/categories", invHandler.GetCategories)
	app.Get("/api/transactions", invHandler.GetTransactions)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
