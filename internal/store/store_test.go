package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stocktrack/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return st
}

func testProduct(id, name string, quantity int) model.Product {
	return model.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromFloat(9.99),
		Quantity: quantity,
		Category: "cat-1",
	}
}

func TestNewInitializesEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir, nil)
	require.NoError(t, err)

	for _, name := range []string{"products.json", "categories.json", "transactions.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	}
}

func TestProductRoundTrip(t *testing.T) {
	st := newTestStore(t)

	want := []model.Product{
		testProduct("p1", "Hammer", 20),
		testProduct("p2", "Screwdriver", 5),
	}
	require.NoError(t, st.SaveProducts(want))

	got, err := st.LoadProducts()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.Remove(filepath.Join(st.dir, productsFile)))

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(st.dir, productsFile), []byte("{not json"), 0o644))

	products, err := st.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAddProductRejectsDuplicateID(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AddProduct(testProduct("p1", "Hammer", 20)))
	err := st.AddProduct(testProduct("p1", "Other", 1))
	assert.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestUpdateProductMissingIsNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.UpdateProduct(testProduct("nope", "Ghost", 0))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateProductReplacesRecord(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AddProduct(testProduct("p1", "Hammer", 20)))

	updated := testProduct("p1", "Sledgehammer", 7)
	require.NoError(t, st.UpdateProduct(updated))

	got, err := st.GetProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, "Sledgehammer", got.Name)
	assert.Equal(t, 7, got.Quantity)
}

func TestDeleteProduct(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AddProduct(testProduct("p1", "Hammer", 20)))

	deleted, err := st.DeleteProduct("p1")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting something absent is not an error.
	deleted, err = st.DeleteProduct("p1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCategoryCRUD(t *testing.T) {
	st := newTestStore(t)

	cat := model.Category{ID: "c1", Name: "Tools"}
	require.NoError(t, st.AddCategory(cat))
	assert.ErrorIs(t, st.AddCategory(cat), model.ErrDuplicateKey)

	cat.Description = "Hand tools"
	require.NoError(t, st.UpdateCategory(cat))

	got, err := st.GetCategory("c1")
	require.NoError(t, err)
	assert.Equal(t, "Hand tools", got.Description)

	deleted, err := st.DeleteCategory("c1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.GetCategory("c1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAddTransactionAppliesQuantityDelta(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AddProduct(testProduct("p1", "Hammer", 20)))

	in := model.Transaction{
		ID:        "t1",
		ProductID: "p1",
		Quantity:  5,
		Type:      model.TxIn,
		Timestamp: time.Now(),
	}
	require.NoError(t, st.AddTransaction(in))

	out := model.Transaction{
		ID:        "t2",
		ProductID: "p1",
		Quantity:  3,
		Type:      model.TxOut,
		Timestamp: time.Now(),
	}
	require.NoError(t, st.AddTransaction(out))

	product, err := st.GetProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, 22, product.Quantity)

	transactions, err := st.LoadTransactions()
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}

func TestAddTransactionInsufficientStockLeavesStateUntouched(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AddProduct(testProduct("p1", "Hammer", 3)))

	err := st.AddTransaction(model.Transaction{
		ID:        "t1",
		ProductID: "p1",
		Quantity:  5,
		Type:      model.TxOut,
		Timestamp: time.Now(),
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	product, getErr := st.GetProduct("p1")
	require.NoError(t, getErr)
	assert.Equal(t, 3, product.Quantity)

	transactions, loadErr := st.LoadTransactions()
	require.NoError(t, loadErr)
	assert.Empty(t, transactions)
}

func TestAddTransactionUnknownProductIsNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.AddTransaction(model.Transaction{
		ID:        "t1",
		ProductID: "ghost",
		Quantity:  1,
		Type:      model.TxIn,
		Timestamp: time.Now(),
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
