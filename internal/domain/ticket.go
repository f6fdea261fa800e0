package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusClosed   TicketStatus = "CLOSED"
)

type TicketPriority string

const (
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

type Ticket struct {
	ID           uuid.UUID        `json:"id"`
	TicketNumber string           `json:"ticket_number"`
	UserID       string           `json:"user_id"`
	Subject      string           `json:"subject"`
	Message      string           `json:"message"`
	Status       TicketStatus     `json:"status"`
	Priority     TicketPriority   `json:"priority"`
	Responses    []TicketResponse `json:"responses"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type TicketResponse struct {
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
