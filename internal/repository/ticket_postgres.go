package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/support-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository defines the interface for escalation ticket persistence
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket entity.Ticket) error
	GetTicket(ctx context.Context, ticketID string) (*entity.Ticket, error)
	ListTickets(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Ticket, error)
}

var _ TicketRepository = &TicketPostgres{}

// TicketPostgres implements TicketRepository using PostgreSQL
type TicketPostgres struct {
	db *pgxpool.Pool
}

func NewTicketPostgres(db *pgxpool.Pool) *TicketPostgres {
	return &TicketPostgres{db: db}
}

func (r *TicketPostgres) CreateTicket(ctx context.Context, ticket entity.Ticket) error {
	const query = `
		INSERT INTO tickets (ticket_id, tenant_id, user_id, intent, severity, reason, assigned_agent, message_preview, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		ticket.TicketID,
		ticket.TenantID,
		ticket.UserID,
		string(ticket.Intent),
		string(ticket.Severity),
		ticket.Reason,
		ticket.AssignedAgent,
		ticket.MessagePreview,
		ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

func (r *TicketPostgres) GetTicket(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	const query = `
		SELECT ticket_id, tenant_id, user_id, intent, severity, reason, assigned_agent, message_preview, created_at
		FROM tickets
		WHERE ticket_id = $1`

	var t entity.Ticket
	err := r.db.QueryRow(ctx, query, ticketID).Scan(
		&t.TicketID,
		&t.TenantID,
		&t.UserID,
		&t.Intent,
		&t.Severity,
		&t.Reason,
		&t.AssignedAgent,
		&t.MessagePreview,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	return &t, nil
}

func (r *TicketPostgres) ListTickets(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Ticket, error) {
	const query = `
		SELECT ticket_id, tenant_id, user_id, intent, severity, reason, assigned_agent, message_preview, created_at
		FROM tickets
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, tenantID, int32(limit), int32(offset))
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var t entity.Ticket
		if err := rows.Scan(
			&t.TicketID,
			&t.TenantID,
			&t.UserID,
			&t.Intent,
			&t.Severity,
			&t.Reason,
			&t.AssignedAgent,
			&t.MessagePreview,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}
