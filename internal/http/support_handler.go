package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Admpapi/lucifer-website/internal/domain"
	"github.com/Admpapi/lucifer-website/internal/support"
)

type SupportHandler struct {
	support *support.Service
	timeout time.Duration
}

func NewSupportHandler(svc *support.Service, timeout time.Duration) *SupportHandler {
	return &SupportHandler{
		support: svc,
		timeout: timeout,
	}
}

type CreateTicketRequestDTO struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type TicketResponseItemDTO struct {
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type TicketDTO struct {
	ID           string                  `json:"id"`
	TicketNumber string                  `json:"ticketNumber"`
	Subject      string                  `json:"subject"`
	Message      string                  `json:"message"`
	Status       string                  `json:"status"`
	Priority     string                  `json:"priority"`
	Responses    []TicketResponseItemDTO `json:"responses"`
	CreatedAt    time.Time               `json:"createdAt"`
}

func ticketToDTO(t *domain.Ticket) TicketDTO {
	responses := make([]TicketResponseItemDTO, 0, len(t.Responses))
	for _, resp := range t.Responses {
		responses = append(responses, TicketResponseItemDTO{
			Message:   resp.Message,
			IsAdmin:   resp.IsAdmin,
			CreatedAt: resp.CreatedAt,
		})
	}

	return TicketDTO{
		ID:           t.ID.String(),
		TicketNumber: t.TicketNumber,
		Subject:      t.Subject,
		Message:      t.Message,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Responses:    responses,
		CreatedAt:    t.CreatedAt,
	}
}

func (h *SupportHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateTicketRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ticket, err := h.support.CreateTicket(ctx, userID, req.Subject, req.Message)
	if err != nil {
		if errors.Is(err, support.ErrSubjectTooShort) || errors.Is(err, support.ErrMessageTooShort) {
			respondError(w, http.StatusBadRequest, "", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create ticket")
		return
	}

	respondJSON(w, http.StatusCreated, ticketToDTO(ticket))
}

func (h *SupportHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	tickets, err := h.support.ListTickets(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list tickets")
		return
	}

	dtos := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		dtos = append(dtos, ticketToDTO(t))
	}

	respondJSON(w, http.StatusOK, dtos)
}
