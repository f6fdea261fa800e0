package cart

import (
	"context"

	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
)

// MockRepository implements Repository for testing
type MockRepository struct {
	Carts     map[string]*domain.Cart
	GetErr    error
	UpsertErr error
	DeleteErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{Carts: make(map[string]*domain.Cart)}
}

func (m *MockRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *cart
	copied.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (m *MockRepository) UpsertCart(_ context.Context, cart *domain.Cart) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Carts[cart.UserID] = cart
	return nil
}

func (m *MockRepository) DeleteCart(_ context.Context, userID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Carts[userID]; !ok {
		return ErrCartNotFound
	}
	delete(m.Carts, userID)
	return nil
}

// MockCache implements Cache for testing
type MockCache struct {
	Carts   map[string]*domain.Cart
	GetErr  error
	Deletes int
}

func NewMockCache() *MockCache {
	return &MockCache{Carts: make(map[string]*domain.Cart)}
}

func (m *MockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cart, nil
}

func (m *MockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.Carts[userID] = cart
	return nil
}

func (m *MockCache) Delete(_ context.Context, userID string) error {
	m.Deletes++
	delete(m.Carts, userID)
	return nil
}

// MockCatalog implements catalog.RepoInterface for testing
type MockCatalog struct {
	Products map[int64]*domain.Product
	ByRef    map[string]*domain.Product
}

func NewMockCatalog(products ...*domain.Product) *MockCatalog {
	m := &MockCatalog{
		Products: make(map[int64]*domain.Product),
		ByRef:    make(map[string]*domain.Product),
	}
	for _, p := range products {
		m.Products[p.ID] = p
		m.ByRef[p.PriceRef] = p
	}
	return m
}

func (m *MockCatalog) GetAllProducts(_ context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}

func (m *MockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *MockCatalog) GetProductByPriceRef(_ context.Context, ref string) (*domain.Product, error) {
	p, ok := m.ByRef[ref]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *MockCatalog) CreateProduct(_ context.Context, p *domain.Product) error {
	m.Products[p.ID] = p
	return nil
}

func (m *MockCatalog) Close() error { return nil }

func (m *MockCatalog) RunMigrations(string) error { return nil }
