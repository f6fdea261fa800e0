package support

import (
	"context"
	"errors"

	"github.com/Admpapi/lucifer-website/internal/domain"
)

var ErrTicketNotFound = errors.New("ticket not found")

type RepoInterface interface {
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	GetTicketByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListTicketsByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error)
	CountOpenTickets(ctx context.Context) (int, error)
	RunMigrations(migrationsDirPath string) error
}
