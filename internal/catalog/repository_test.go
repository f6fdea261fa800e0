package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("./migrations"))

	return repo
}

func TestGetAllProducts_ReturnsSeededCatalog(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	products, err := repo.GetAllProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 11)

	first := products[0]
	assert.Equal(t, "Future Remake", first.Title)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, "price_1R6IM7002cVOUcOCOP1LOmBe", first.PriceRef)
	assert.Equal(t, []string{"OX", "ESX", "Plug & Play"}, first.Tags)
	assert.Equal(t, 47, first.Stock)
	assert.True(t, first.IsNew)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	_, err := repo.GetProduct(context.Background(), 9999)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestGetProductByPriceRef(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	p, err := repo.GetProductByPriceRef(context.Background(), "price_1QtVt9002cVOUcOClADDgGvw")

	require.NoError(t, err)
	assert.Equal(t, "Fresh Bypass | Lifetime", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("20.00")))

	_, err = repo.GetProductByPriceRef(context.Background(), "price_nope")
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestCreateProduct_RoundTrips(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	p := &domain.Product{
		Title:    "Test Script",
		Price:    decimal.RequireFromString("9.99"),
		PriceRef: "price_test_123",
		Tags:     []string{"Test"},
		Stock:    10,
		IsNew:    true,
	}

	require.NoError(t, repo.CreateProduct(context.Background(), p))
	require.NotZero(t, p.ID)

	fetched, err := repo.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, fetched.Title)
	assert.True(t, fetched.Price.Equal(p.Price))
	assert.Equal(t, p.PriceRef, fetched.PriceRef)
}
