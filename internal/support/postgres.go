package support

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Admpapi/lucifer-website/internal/domain"
)

// Repository stores tickets in the same postgres database as orders;
// responses live embedded in a JSONB column.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) RunMigrations(migrationsDirPath string) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "support_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

const ticketColumns = `id, ticket_number, user_id, subject, message, status, priority, responses, created_at, updated_at`

func (r *Repository) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	responses, err := json.Marshal(ticket.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	query := `INSERT INTO support_tickets (id, ticket_number, user_id, subject, message, status, priority, responses, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err = r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.TicketNumber,
		ticket.UserID,
		ticket.Subject,
		ticket.Message,
		ticket.Status,
		ticket.Priority,
		responses)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *Repository) GetTicketByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_tickets WHERE id = $1`, ticketColumns)

	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query ticket by id: %w", err)
	}
	return ticket, nil
}

func (r *Repository) ListTicketsByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_tickets WHERE user_id = $1 ORDER BY created_at DESC`, ticketColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tickets, nil
}

func (r *Repository) CountOpenTickets(ctx context.Context) (int, error) {
	var open int
	query := `SELECT COUNT(*) FROM support_tickets WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, query, domain.TicketStatusOpen).Scan(&open); err != nil {
		return 0, fmt.Errorf("count open tickets: %w", err)
	}
	return open, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var responses []byte
	err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Status,
		&ticket.Priority,
		&responses,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(responses, &ticket.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}
	return ticket, nil
}
