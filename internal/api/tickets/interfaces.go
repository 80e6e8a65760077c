package tickets

import (
	"context"

	"github.com/futig/support-backend/internal/entity"
)

type TicketRepository interface {
	GetTicket(ctx context.Context, ticketID string) (*entity.Ticket, error)
	ListTickets(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Ticket, error)
}
