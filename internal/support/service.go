// Package support handles customer support tickets: creation with
// basic validation, per-user listing, and the open-ticket count the
// admin analytics view reads.
package support

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Admpapi/lucifer-website/internal/domain"
)

var (
	ErrSubjectTooShort = errors.New("subject must be at least 5 characters")
	ErrMessageTooShort = errors.New("message must be at least 10 characters")
)

const (
	minSubjectLen = 5
	minMessageLen = 10
)

type Service struct {
	repo RepoInterface
}

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

// CreateTicket opens a new ticket. The opening message doubles as the
// first response so the conversation thread is complete from the start.
func (s *Service) CreateTicket(ctx context.Context, userID, subject, message string) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)

	if len(subject) < minSubjectLen {
		return nil, ErrSubjectTooShort
	}
	if len(message) < minMessageLen {
		return nil, ErrMessageTooShort
	}

	number, err := newTicketNumber()
	if err != nil {
		return nil, fmt.Errorf("generate ticket number: %w", err)
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:           uuid.New(),
		TicketNumber: number,
		UserID:       userID,
		Subject:      subject,
		Message:      message,
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityNormal,
		Responses: []domain.TicketResponse{
			{Message: message, IsAdmin: false, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

func (s *Service) ListTickets(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	tickets, err := s.repo.ListTicketsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *Service) CountOpenTickets(ctx context.Context) (int, error) {
	return s.repo.CountOpenTickets(ctx)
}

func newTicketNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "TKT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
