package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go-stocktrack/internal/model"
)

const (
	productsFile     = "products.json"
	categoriesFile   = "categories.json"
	transactionsFile = "transactions.json"
)

// Store persists the three collections as flat JSON documents, one file per
// collection. Every mutation is load-entire-collection, mutate, save-entire-
// collection. A per-collection mutex serializes writers within this process;
// concurrent writers in separate processes are not protected and can lose
// updates. That is a documented limitation of the flat-file layout.
type Store struct {
	dir string
	log *slog.Logger

	productsMu     sync.Mutex
	categoriesMu   sync.Mutex
	transactionsMu sync.Mutex
}

// New opens a store rooted at dir, creating the directory and empty
// collection files on first use.
func New(dir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, model.ErrStorageUnavailable)
	}
	s := &Store{dir: dir, log: log}
	for _, name := range []string{productsFile, categoriesFile, transactionsFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("initialize %s: %w", name, model.ErrStorageUnavailable)
			}
		}
	}
	return s, nil
}

// load reads a collection file into out. A missing file yields an empty
// collection. A file that fails to decode also yields an empty collection,
// but the corruption is logged rather than silently swallowed.
func (s *Store) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %v: %w", name, err, model.ErrStorageUnavailable)
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("collection file is corrupt, treating as empty", "file", name, "error", err)
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %v: %w", name, err, model.ErrStorageUnavailable)
	}
	return nil
}

// Product operations

func (s *Store) LoadProducts() ([]model.Product, error) {
	var products []model.Product
	if err := s.load(productsFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) SaveProducts(products []model.Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	return s.saveProductsLocked(products)
}

func (s *Store) saveProductsLocked(products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	return s.save(productsFile, products)
}

func (s *Store) GetProduct(id string) (*model.Product, error) {
	products, err := s.LoadProducts()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
}

func (s *Store) AddProduct(p model.Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	products, err := s.LoadProducts()
	if err != nil {
		return err
	}
	for _, existing := range products {
		if existing.ID == p.ID {
			return fmt.Errorf("product %s: %w", p.ID, model.ErrDuplicateKey)
		}
	}
	return s.saveProductsLocked(append(products, p))
}

func (s *Store) UpdateProduct(p model.Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	products, err := s.LoadProducts()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			return s.saveProductsLocked(products)
		}
	}
	return fmt.Errorf("product %s: %w", p.ID, model.ErrNotFound)
}

func (s *Store) DeleteProduct(id string) (bool, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	products, err := s.LoadProducts()
	if err != nil {
		return false, err
	}
	for i := range products {
		if products[i].ID == id {
			products = append(products[:i], products[i+1:]...)
			return true, s.saveProductsLocked(products)
		}
	}
	return false, nil
}

// Category operations

func (s *Store) LoadCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := s.load(categoriesFile, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) SaveCategories(categories []model.Category) error {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()
	if categories == nil {
		categories = []model.Category{}
	}
	return s.save(categoriesFile, categories)
}

func (s *Store) GetCategory(id string) (*model.Category, error) {
	categories, err := s.LoadCategories()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", id, model.ErrNotFound)
}

func (s *Store) AddCategory(c model.Category) error {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := s.LoadCategories()
	if err != nil {
		return err
	}
	for _, existing := range categories {
		if existing.ID == c.ID {
			return fmt.Errorf("category %s: %w", c.ID, model.ErrDuplicateKey)
		}
	}
	return s.save(categoriesFile, append(categories, c))
}

func (s *Store) UpdateCategory(c model.Category) error {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := s.LoadCategories()
	if err != nil {
		return err
	}
	for i := range categories {
		if categories[i].ID == c.ID {
			categories[i] = c
			return s.save(categoriesFile, categories)
		}
	}
	return fmt.Errorf("category %s: %w", c.ID, model.ErrNotFound)
}

func (s *Store) DeleteCategory(id string) (bool, error) {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	categories, err := s.LoadCategories()
	if err != nil {
		return false, err
	}
	for i := range categories {
		if categories[i].ID == id {
			categories = append(categories[:i], categories[i+1:]...)
			return true, s.save(categoriesFile, categories)
		}
	}
	return false, nil
}

// Transaction operations

func (s *Store) LoadTransactions() ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := s.load(transactionsFile, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Store) SaveTransactions(transactions []model.Transaction) error {
	s.transactionsMu.Lock()
	defer s.transactionsMu.Unlock()
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	return s.save(transactionsFile, transactions)
}

// AddTransaction records a stock movement and applies its quantity delta to
// the referenced product. Both writes succeed or neither is visible: a failed
// transaction append rolls the product quantity back before returning.
func (s *Store) AddTransaction(tx model.Transaction) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	s.transactionsMu.Lock()
	defer s.transactionsMu.Unlock()

	products, err := s.LoadProducts()
	if err != nil {
		return err
	}
	idx := -1
	for i := range products {
		if products[i].ID == tx.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("product %s: %w", tx.ProductID, model.ErrNotFound)
	}

	prevQuantity := products[idx].Quantity
	switch tx.Type {
	case model.TxIn:
		products[idx].Quantity += tx.Quantity
	case model.TxOut:
		if products[idx].Quantity < tx.Quantity {
			return fmt.Errorf("product %s: %w", products[idx].Name, model.ErrInsufficientStock)
		}
		products[idx].Quantity -= tx.Quantity
	default:
		return fmt.Errorf("transaction type %q: %w", tx.Type, model.ErrInvalidArgument)
	}

	transactions, err := s.LoadTransactions()
	if err != nil {
		return err
	}
	for _, existing := range transactions {
		if existing.ID == tx.ID {
			return fmt.Errorf("transaction %s: %w", tx.ID, model.ErrDuplicateKey)
		}
	}

	if err := s.saveProductsLocked(products); err != nil {
		return err
	}
	if err := s.save(transactionsFile, append(transactions, tx)); err != nil {
		// Roll the quantity change back so no transaction-less delta survives.
		products[idx].Quantity = prevQuantity
		if rbErr := s.saveProductsLocked(products); rbErr != nil {
			s.log.Error("rollback of product quantity failed", "product_id", tx.ProductID, "error", rbErr)
		}
		return err
	}
	return nil
}
