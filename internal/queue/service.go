package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmpnokaikaku/QueueTicket/internal/models"
	"github.com/tmpnokaikaku/QueueTicket/internal/store"
)

var ErrInvalidGroupSize = errors.New("group size must be a positive integer")

// Encoder turns a guest URL into inline scannable-code markup.
type Encoder interface {
	Encode(text string) (string, error)
}

// Service drives the ticket lifecycle: issuance, status changes, the guest
// queue-position view, and the administrative reset. All mutable state lives
// in the store; the service itself holds only immutable configuration.
type Service struct {
	store   store.TicketStore
	encoder Encoder
	baseURL string
}

func NewService(st store.TicketStore, encoder Encoder, baseURL string) *Service {
	return &Service{
		store:   st,
		encoder: encoder,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Issued is what the staff-facing view needs after a ticket is created.
type Issued struct {
	Ticket   models.Ticket `json:"ticket"`
	GuestURL string        `json:"guest_url"`
	QRSVG    string        `json:"qr_svg"`
}

func (s *Service) Issue(ctx context.Context, groupSize int) (Issued, error) {
	if groupSize < 1 {
		return Issued{}, fmt.Errorf("%w: %d", ErrInvalidGroupSize, groupSize)
	}

	ticket, err := s.store.CreateTicket(ctx, groupSize)
	if err != nil {
		return Issued{}, fmt.Errorf("create ticket: %w", err)
	}

	guestURL := s.baseURL + "/guest/" + ticket.ID
	svg, err := s.encoder.Encode(guestURL)
	if err != nil {
		return Issued{}, fmt.Errorf("encode guest url: %w", err)
	}

	return Issued{Ticket: ticket, GuestURL: guestURL, QRSVG: svg}, nil
}

// SetStatus applies a staff-driven status change. Any recognized status may
// be set from any other; ordering is a staff concern, not an invariant.
func (s *Service) SetStatus(ctx context.Context, id, label string) (models.Ticket, error) {
	status, err := models.ParseStatus(label)
	if err != nil {
		return models.Ticket{}, err
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// ViewFor returns the ticket and the count of still-waiting tickets with a
// strictly smaller number. The count is advisory: after a number wrap it can
// disagree with wall-clock issuance order.
func (s *Service) ViewFor(ctx context.Context, id string) (models.Ticket, int64, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return models.Ticket{}, 0, err
	}
	waiting, err := s.store.CountWaitingBefore(ctx, ticket.Number)
	if err != nil {
		return models.Ticket{}, 0, fmt.Errorf("count waiting: %w", err)
	}
	return ticket, waiting, nil
}

func (s *Service) ActiveList(ctx context.Context) ([]models.Ticket, error) {
	return s.store.ListActive(ctx)
}

// Reset empties the store. Irreversible; callers must gate it behind the
// admin guard.
func (s *Service) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}
