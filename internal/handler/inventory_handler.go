package handler

import (
	"sort"
	"strconv"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	service           service.InventoryService
	lowStockThreshold int
}

func NewInventoryHandler(s service.InventoryService, lowStockThreshold int) *InventoryHandler {
	return &InventoryHandler{service: s, lowStockThreshold: lowStockThreshold}
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type stockRequest struct {
	Quantity int    `json:"quantity"`
	User     string `json:"user"`
	Note     string `json:"note"`
}

// Products

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("id"))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(req.Name, req.Description, req.Price, req.Quantity, req.Category)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	var patch model.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(c.Params("id"), patch)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteProduct(c.Params("id"))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !deleted {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *InventoryHandler) SearchProducts(c *fiber.Ctx) error {
	term := c.Query("term")
	if term == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term query parameter is required"})
	}
	products, err := h.service.SearchProducts(term)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetLowStockProducts(c *fiber.Ctx) error {
	threshold := h.lowStockThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "threshold must be a non-negative integer"})
		}
		threshold = n
	}
	products, err := h.service.GetLowStockProducts(threshold)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"threshold": threshold, "products": products})
}

// Categories

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.Params("id"))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(category)
}

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.service.CreateCategory(req.Name, req.Description)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var patch model.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.service.UpdateCategory(c.Params("id"), patch)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteCategory(c.Params("id"))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !deleted {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// Stock movements

func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.AddStock(c.Params("id"), req.Quantity, req.User, req.Note)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock added", "data": tx})
}

func (h *InventoryHandler) RemoveStock(c *fiber.Ctx) error {
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.RemoveStock(c.Params("id"), req.Quantity, req.User, req.Note)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock removed", "data": tx})
}

// Transactions

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.GetTransactionHistory(c.Query("product_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	// Newest first for display.
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})
	return c.JSON(transactions)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	transactions, err := h.service.GetTransactionHistory("")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	id := c.Params("id")
	for _, tx := range transactions {
		if tx.ID == id {
			return c.JSON(tx)
		}
	}
	return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
}
