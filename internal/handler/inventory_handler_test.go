package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/store"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	st, err := store.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	cfg := config.Config{LowStockThreshold: 5, CriticalThreshold: 2, UsageWindowDays: 30}
	invService := service.NewInventoryService(st, nil)
	reportService := service.NewReportService(st)

	invHandler := NewInventoryHandler(invService, cfg.LowStockThreshold)
	dashHandler := NewDashboardHandler(reportService, cfg)

	app := fiber.New()
	api := app.Group("/api/v1")

	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	api.Get("/products", invHandler.GetProducts)
	api.Post("/products", invHandler.CreateProduct)
	api.Get("/products/search", invHandler.SearchProducts)
	api.Get("/products/low-stock", invHandler.GetLowStockProducts)
	api.Get("/products/:id", invHandler.GetProduct)
	api.Put("/products/:id", invHandler.UpdateProduct)
	api.Delete("/products/:id", invHandler.DeleteProduct)
	api.Post("/products/:id/add-stock", invHandler.AddStock)
	api.Post("/products/:id/remove-stock", invHandler.RemoveStock)

	api.Get("/categories", invHandler.GetCategories)
	api.Post("/categories", invHandler.CreateCategory)
	api.Get("/categories/:id", invHandler.GetCategory)
	api.Put("/categories/:id", invHandler.UpdateCategory)
	api.Delete("/categories/:id", invHandler.DeleteCategory)

	api.Get("/transactions", invHandler.GetTransactions)
	api.Get("/transactions/:id", invHandler.GetTransaction)

	api.Get("/reports/valuation", dashHandler.GetValuationReport)
	api.Get("/reports/low-stock", dashHandler.GetLowStockReport)
	api.Get("/reports/reorder", dashHandler.GetReorderReport)
	api.Get("/reports/category-performance", dashHandler.GetCategoryPerformance)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func createCategoryViaAPI(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/categories", fiber.Map{"name": name})
	require.Equal(t, 201, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["category_id"].(string)
}

func createProductViaAPI(t *testing.T, app *fiber.App, name string, price float64, quantity int, category string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/products", fiber.Map{
		"name":     name,
		"price":    price,
		"quantity": quantity,
		"category": category,
	})
	require.Equal(t, 201, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["product_id"].(string)
}

func TestCreateAndGetProduct(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10.50, 20, catID)

	resp, body := doJSON(t, app, "GET", "/api/v1/products/"+productID, nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Hammer", body["name"])
	assert.Equal(t, float64(20), body["quantity"])
}

func TestCreateProductUnknownCategory(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/v1/products", fiber.Map{
		"name":     "Hammer",
		"price":    10,
		"quantity": 5,
		"category": "no-such-category",
	})
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, body["error"], "not found")
}

func TestCreateProductValidationFailure(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/products", fiber.Map{
		"name":     "",
		"price":    10,
		"quantity": 5,
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetProductNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/v1/products/ghost", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUpdateProductSparsePatch(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10, 20, catID)

	resp, body := doJSON(t, app, "PUT", "/api/v1/products/"+productID, fiber.Map{"price": 9.99})
	assert.Equal(t, 200, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Hammer", data["name"], "name untouched by a price-only patch")
	assert.Equal(t, float64(20), data["quantity"])
}

func TestDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10, 20, catID)

	resp, _ := doJSON(t, app, "DELETE", "/api/v1/products/"+productID, nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/products/"+productID, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSearchRequiresTerm(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/v1/products/search", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLowStockEndpoint(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	createProductViaAPI(t, app, "Hammer", 10, 3, catID)
	createProductViaAPI(t, app, "Wrench", 8, 30, catID)

	resp, body := doJSON(t, app, "GET", "/api/v1/products/low-stock", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(5), body["threshold"])
	products := body["products"].([]any)
	require.Len(t, products, 1)

	resp, _ = doJSON(t, app, "GET", "/api/v1/products/low-stock?threshold=abc", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestStockEndpoints(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10, 20, catID)

	resp, body := doJSON(t, app, "POST", "/api/v1/products/"+productID+"/add-stock",
		fiber.Map{"quantity": 5, "user": "alice"})
	assert.Equal(t, 201, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "IN", data["transaction_type"])

	resp, _ = doJSON(t, app, "POST", "/api/v1/products/"+productID+"/remove-stock",
		fiber.Map{"quantity": 3})
	assert.Equal(t, 201, resp.StatusCode)

	resp, getBody := doJSON(t, app, "GET", "/api/v1/products/"+productID, nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(22), getBody["quantity"])
}

func TestRemoveStockInsufficient(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10, 2, catID)

	resp, body := doJSON(t, app, "POST", "/api/v1/products/"+productID+"/remove-stock",
		fiber.Map{"quantity": 5})
	assert.Equal(t, 422, resp.StatusCode)
	assert.Contains(t, body["error"], "insufficient")
}

func TestTransactionsEndpoint(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	hammer := createProductViaAPI(t, app, "Hammer", 10, 20, catID)
	wrench := createProductViaAPI(t, app, "Wrench", 8, 20, catID)

	_, addBody := doJSON(t, app, "POST", "/api/v1/products/"+hammer+"/add-stock", fiber.Map{"quantity": 1})
	doJSON(t, app, "POST", "/api/v1/products/"+wrench+"/add-stock", fiber.Map{"quantity": 2})

	req := httptest.NewRequest("GET", "/api/v1/transactions", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var all []model.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, 2)

	req = httptest.NewRequest("GET", "/api/v1/transactions?product_id="+hammer, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var filtered []model.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, hammer, filtered[0].ProductID)

	txData := addBody["data"].(map[string]any)
	txID := txData["transaction_id"].(string)
	resp, single := doJSON(t, app, "GET", "/api/v1/transactions/"+txID, nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, txID, single["transaction_id"])
}

func TestCategoryEndpoints(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")

	resp, body := doJSON(t, app, "PUT", "/api/v1/categories/"+catID, fiber.Map{"description": "Hand tools"})
	assert.Equal(t, 200, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Tools", data["name"])
	assert.Equal(t, "Hand tools", data["description"])

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/categories/"+catID, nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/v1/categories/"+catID, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDashboardStatsEndpoint(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	createProductViaAPI(t, app, "Hammer", 10, 3, catID)

	resp, body := doJSON(t, app, "GET", "/api/v1/dashboard/stats", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_products"])
	assert.Equal(t, float64(1), body["total_categories"])
	assert.Equal(t, float64(1), body["low_stock_count"])
}

func TestReportEndpoints(t *testing.T) {
	app := newTestApp(t)
	catID := createCategoryViaAPI(t, app, "Tools")
	productID := createProductViaAPI(t, app, "Hammer", 10, 20, catID)
	doJSON(t, app, "POST", "/api/v1/products/"+productID+"/remove-stock", fiber.Map{"quantity": 3})

	resp, body := doJSON(t, app, "GET", "/api/v1/reports/valuation", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(17), body["total_items"])

	resp, body = doJSON(t, app, "GET", "/api/v1/reports/low-stock?threshold=20", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(20), body["threshold"])

	resp, body = doJSON(t, app, "GET", "/api/v1/reports/reorder", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(30), body["window_days"])

	resp, body = doJSON(t, app, "GET", "/api/v1/reports/category-performance", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(3), body["total_units"])
}
