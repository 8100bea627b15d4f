package handler

import (
	"strconv"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	reports service.ReportService
	cfg     config.Config
}

func NewDashboardHandler(reports service.ReportService, cfg config.Config) *DashboardHandler {
	return &DashboardHandler{reports: reports, cfg: cfg}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// GetDashboardStats returns overview statistics for the home page.
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.reports.DashboardStats(h.cfg.LowStockThreshold)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetStockMovement returns per-day inbound/outbound totals for charts.
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)
	data, err := h.reports.StockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(fiber.Map{"period": days, "data": data})
}

func (h *DashboardHandler) GetValuationReport(c *fiber.Ctx) error {
	report, err := h.reports.InventoryValuation()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute valuation"})
	}
	return c.JSON(report)
}

func (h *DashboardHandler) GetLowStockReport(c *fiber.Ctx) error {
	low := queryInt(c, "threshold", h.cfg.LowStockThreshold)
	items, err := h.reports.LowStockReport(low, h.cfg.CriticalThreshold)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute low stock report"})
	}
	return c.JSON(fiber.Map{"threshold": low, "items": items})
}

func (h *DashboardHandler) GetReorderReport(c *fiber.Ctx) error {
	window := queryInt(c, "window", h.cfg.UsageWindowDays)
	items, err := h.reports.ReorderRecommendations(h.cfg.LowStockThreshold, window)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute reorder recommendations"})
	}
	return c.JSON(fiber.Map{"window_days": window, "items": items})
}

func (h *DashboardHandler) GetCategoryPerformance(c *fiber.Ctx) error {
	window := queryInt(c, "window", h.cfg.UsageWindowDays)
	report, err := h.reports.CategoryPerformance(window)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute category performance"})
	}
	return c.JSON(report)
}
