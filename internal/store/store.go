package store

import (
	"context"

	"github.com/tmpnokaikaku/QueueTicket/internal/models"
)

// TicketStore is the persistence boundary for tickets. Number assignment
// happens inside CreateTicket so that reading the current maximum and
// inserting the row appear atomic to concurrent callers.
type TicketStore interface {
	CreateTicket(ctx context.Context, groupSize int) (models.Ticket, error)
	GetTicket(ctx context.Context, id string) (models.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (models.Ticket, error)
	ListActive(ctx context.Context) ([]models.Ticket, error)
	CountWaitingBefore(ctx context.Context, number int) (int64, error)
	Reset(ctx context.Context) error
}
