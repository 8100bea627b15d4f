package service

import (
	"fmt"
	"strings"
	"time"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/store"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryService interface {
	CreateProduct(name, description string, price decimal.Decimal, quantity int, categoryID string) (*model.Product, error)
	UpdateProduct(id string, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(id string) (bool, error)
	GetProduct(id string) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	SearchProducts(term string) ([]model.Product, error)
	GetProductsByCategory(categoryID string) ([]model.Product, error)
	GetLowStockProducts(threshold int) ([]model.Product, error)

	CreateCategory(name, description string) (*model.Category, error)
	UpdateCategory(id string, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(id string) (bool, error)
	GetCategory(id string) (*model.Category, error)
	GetAllCategories() ([]model.Category, error)

	AddStock(productID string, quantity int, user, note string) (*model.Transaction, error)
	RemoveStock(productID string, quantity int, user, note string) (*model.Transaction, error)
	GetTransactionHistory(productID string) ([]model.Transaction, error)
}

type inventoryService struct {
	store *store.Store
	hub   *ws.Hub
	now   func() time.Time
}

// NewInventoryService wires the engine over a store. The hub may be nil when
// no web layer is running (the CLI case); broadcasts are then skipped.
func NewInventoryService(st *store.Store, hub *ws.Hub) InventoryService {
	return &inventoryService{store: st, hub: hub, now: time.Now}
}

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("field %s failed on %s: %w", first.FailedField, first.Tag, model.ErrInvalidArgument)
}

// Product management

func (s *inventoryService) CreateProduct(name, description string, price decimal.Decimal, quantity int, categoryID string) (*model.Product, error) {
	product := model.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Category:    categoryID,
	}
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return nil, validationError(errs)
	}
	// Category references are validated here, consistently for every caller.
	if categoryID != "" {
		if _, err := s.store.GetCategory(categoryID); err != nil {
			return nil, err
		}
	}
	if err := s.store.AddProduct(product); err != nil {
		return nil, err
	}

	go s.hub.Publish(ws.StockEvent{
		Action:  "product_created",
		Payload: product,
		Message: fmt.Sprintf("product '%s' created with quantity %d", product.Name, product.Quantity),
	})
	return &product, nil
}

func (s *inventoryService) UpdateProduct(id string, patch model.ProductPatch) (*model.Product, error) {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if patch.Category != nil && *patch.Category != "" {
		if _, err := s.store.GetCategory(*patch.Category); err != nil {
			return nil, err
		}
	}
	patch.Apply(product)
	if errs := validator.ValidateStruct(*product); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.store.UpdateProduct(*product); err != nil {
		return nil, err
	}

	go s.hub.Publish(ws.StockEvent{
		Action:  "product_updated",
		Payload: product,
		Message: fmt.Sprintf("product '%s' updated", product.Name),
	})
	return product, nil
}

func (s *inventoryService) DeleteProduct(id string) (bool, error) {
	return s.store.DeleteProduct(id)
}

func (s *inventoryService) GetProduct(id string) (*model.Product, error) {
	return s.store.GetProduct(id)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.store.LoadProducts()
}

func (s *inventoryService) SearchProducts(term string) ([]model.Product, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	var matches []model.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *inventoryService) GetProductsByCategory(categoryID string) ([]model.Product, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	var matches []model.Product
	for _, p := range products {
		if p.Category == categoryID {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *inventoryService) GetLowStockProducts(threshold int) ([]model.Product, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	var low []model.Product
	for _, p := range products {
		if p.Quantity <= threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

// Category management

func (s *inventoryService) CreateCategory(name, description string) (*model.Category, error) {
	category := model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.store.AddCategory(category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *inventoryService) UpdateCategory(id string, patch model.CategoryPatch) (*model.Category, error) {
	category, err := s.store.GetCategory(id)
	if err != nil {
		return nil, err
	}
	patch.Apply(category)
	if errs := validator.ValidateStruct(*category); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.store.UpdateCategory(*category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory does not cascade: products keep their category reference and
// display layers show "Unknown" for it.
func (s *inventoryService) DeleteCategory(id string) (bool, error) {
	return s.store.DeleteCategory(id)
}

func (s *inventoryService) GetCategory(id string) (*model.Category, error) {
	return s.store.GetCategory(id)
}

func (s *inventoryService) GetAllCategories() ([]model.Category, error) {
	return s.store.LoadCategories()
}

// Stock transactions

func (s *inventoryService) AddStock(productID string, quantity int, user, note string) (*model.Transaction, error) {
	return s.recordMovement(productID, quantity, model.TxIn, user, note)
}

func (s *inventoryService) RemoveStock(productID string, quantity int, user, note string) (*model.Transaction, error) {
	return s.recordMovement(productID, quantity, model.TxOut, user, note)
}

func (s *inventoryService) recordMovement(productID string, quantity int, txType model.TransactionType, user, note string) (*model.Transaction, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrInvalidArgument)
	}

	tx := model.Transaction{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		Type:      txType,
		Timestamp: s.now(),
		User:      user,
		Note:      note,
	}
	if err := s.store.AddTransaction(tx); err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(productID)
	if err != nil {
		return &tx, nil
	}
	verb := "added to"
	if txType == model.TxOut {
		verb = "removed from"
	}
	go s.hub.Publish(ws.StockEvent{
		Action: "transaction_created",
		Payload: map[string]any{
			"transaction": tx,
			"new_stock":   product.Quantity,
		},
		Message: fmt.Sprintf("%d units %s '%s'", quantity, verb, product.Name),
	})
	return &tx, nil
}

func (s *inventoryService) GetTransactionHistory(productID string) ([]model.Transaction, error) {
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	if productID == "" {
		return transactions, nil
	}
	var filtered []model.Transaction
	for _, t := range transactions {
		if t.ProductID == productID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}
