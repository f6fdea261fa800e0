package http

import (
	"context"
	"time"

	"github.com/Admpapi/lucifer-website/internal/cart"
	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
	"github.com/Admpapi/lucifer-website/internal/order"
	"github.com/Admpapi/lucifer-website/internal/payment"
	"github.com/Admpapi/lucifer-website/internal/support"
)

type MockProvider struct {
	CouponID      string
	CouponErr     error
	Session       *payment.Session
	SessionErr    error
	SessionParams *payment.SessionParams
	Retrieved     *payment.Session
	RetrieveErr   error
}

func (m *MockProvider) CreateCoupon(_ context.Context, _ payment.CouponParams) (string, error) {
	return m.CouponID, m.CouponErr
}

func (m *MockProvider) CreateSession(_ context.Context, params payment.SessionParams) (*payment.Session, error) {
	m.SessionParams = &params
	return m.Session, m.SessionErr
}

func (m *MockProvider) GetSession(_ context.Context, _ string) (*payment.Session, error) {
	return m.Retrieved, m.RetrieveErr
}

type MockCartRepo struct {
	Carts map[string]*domain.Cart
}

func NewMockCartRepo() *MockCartRepo {
	return &MockCartRepo{Carts: make(map[string]*domain.Cart)}
}

func (m *MockCartRepo) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := m.Carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

func (m *MockCartRepo) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.Carts[c.UserID] = c
	return nil
}

func (m *MockCartRepo) DeleteCart(_ context.Context, userID string) error {
	delete(m.Carts, userID)
	return nil
}

type NopCache struct{}

func (NopCache) Get(context.Context, string) (*domain.Cart, error) { return nil, cart.ErrCacheMiss }
func (NopCache) Set(context.Context, string, *domain.Cart) error   { return nil }
func (NopCache) Delete(context.Context, string) error              { return nil }

type MockCatalog struct {
	Products []*domain.Product
	Created  *domain.Product
}

func (m *MockCatalog) GetAllProducts(context.Context) ([]*domain.Product, error) {
	return m.Products, nil
}

func (m *MockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range m.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (m *MockCatalog) GetProductByPriceRef(_ context.Context, priceRef string) (*domain.Product, error) {
	for _, p := range m.Products {
		if p.PriceRef == priceRef {
			return p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (m *MockCatalog) CreateProduct(_ context.Context, p *domain.Product) error {
	p.ID = int64(len(m.Products) + 1)
	p.CreatedAt = time.Now()
	m.Products = append(m.Products, p)
	m.Created = p
	return nil
}

func (m *MockCatalog) Close() error               { return nil }
func (m *MockCatalog) RunMigrations(string) error { return nil }

type MockOrderRepo struct {
	Orders    []*domain.Order
	Total     int
	Completed int
	Revenue   string
}

func (m *MockOrderRepo) CreateOrder(_ context.Context, o *domain.Order) error {
	m.Orders = append(m.Orders, o)
	return nil
}

func (m *MockOrderRepo) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range m.Orders {
		if o.ID.String() == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockOrderRepo) ListOrders(context.Context) ([]*domain.Order, error) {
	return m.Orders, nil
}

func (m *MockOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) CountOrders(context.Context) (int, int, error) {
	return m.Total, m.Completed, nil
}

func (m *MockOrderRepo) SumRevenue(context.Context) (string, error) {
	if m.Revenue == "" {
		return "0", nil
	}
	return m.Revenue, nil
}

func (m *MockOrderRepo) GetUnprocessedEvents(context.Context, int) ([]*order.OutboxEvent, error) {
	return nil, nil
}

func (m *MockOrderRepo) MarkEventAsProcessed(context.Context, int64) error { return nil }
func (m *MockOrderRepo) Close() error                                      { return nil }
func (m *MockOrderRepo) RunMigrations(*order.Credentials) error            { return nil }

type MockTicketRepo struct {
	Tickets   []*domain.Ticket
	OpenCount int
}

func (m *MockTicketRepo) CreateTicket(_ context.Context, t *domain.Ticket) error {
	m.Tickets = append(m.Tickets, t)
	return nil
}

func (m *MockTicketRepo) GetTicketByID(_ context.Context, id string) (*domain.Ticket, error) {
	for _, t := range m.Tickets {
		if t.ID.String() == id {
			return t, nil
		}
	}
	return nil, support.ErrTicketNotFound
}

func (m *MockTicketRepo) ListTicketsByUserID(_ context.Context, userID string) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range m.Tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTicketRepo) CountOpenTickets(context.Context) (int, error) {
	return m.OpenCount, nil
}

func (m *MockTicketRepo) RunMigrations(string) error { return nil }
