package order

import (
	"context"
	"errors"
	"time"

	"github.com/Admpapi/lucifer-website/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded for this session")
)

// OutboxEvent is a pending order event awaiting publication.
type OutboxEvent struct {
	ID          int64
	AggregateID string // session id, used as the kafka message key
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type RepoInterface interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	CountOrders(ctx context.Context) (total, completed int, err error)
	SumRevenue(ctx context.Context) (string, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	Close() error
	RunMigrations(*Credentials) error
}
