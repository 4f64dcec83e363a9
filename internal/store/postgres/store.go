package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/tmpnokaikaku/QueueTicket/internal/models"
	"github.com/tmpnokaikaku/QueueTicket/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ticketNumberLock serializes number assignment across concurrent issuance.
// The next number is derived from current table contents (MAX+1 with
// wraparound), so the read and the insert must not interleave.
const ticketNumberLock = 7201

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the tickets table if it does not exist. The number
// column deliberately carries no unique constraint: after wraparound past
// 999 a low number may be reissued while the old ticket is still active.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tickets (
			id         UUID PRIMARY KEY,
			number     INTEGER NOT NULL,
			group_size INTEGER NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *Store) CreateTicket(ctx context.Context, groupSize int) (models.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Ticket{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ticketNumberLock); err != nil {
		return models.Ticket{}, err
	}

	var next int
	if err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM tickets`).Scan(&next); err != nil {
		return models.Ticket{}, err
	}
	if next > models.MaxTicketNumber {
		next = 1
	}

	ticket := models.Ticket{
		ID:        uuid.NewString(),
		Number:    next,
		GroupSize: groupSize,
		Status:    models.StatusWaiting,
		CreatedAt: time.Now().UTC(),
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO tickets (id, number, group_size, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ticket.ID, ticket.Number, ticket.GroupSize, ticket.Status, ticket.CreatedAt); err != nil {
		return models.Ticket{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) GetTicket(ctx context.Context, id string) (models.Ticket, error) {
	var ticket models.Ticket
	row := s.pool.QueryRow(ctx, `
		SELECT id, number, group_size, status, created_at
		FROM tickets
		WHERE id = $1
	`, id)
	if err := row.Scan(&ticket.ID, &ticket.Number, &ticket.GroupSize, &ticket.Status, &ticket.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Ticket, error) {
	var ticket models.Ticket
	row := s.pool.QueryRow(ctx, `
		UPDATE tickets
		SET status = $1
		WHERE id = $2
		RETURNING id, number, group_size, status, created_at
	`, status, id)
	if err := row.Scan(&ticket.ID, &ticket.Number, &ticket.GroupSize, &ticket.Status, &ticket.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) ListActive(ctx context.Context) ([]models.Ticket, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, number, group_size, status, created_at
		FROM tickets
		WHERE status != $1
		ORDER BY number ASC
	`, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.Number, &ticket.GroupSize, &ticket.Status, &ticket.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (s *Store) CountWaitingBefore(ctx context.Context, number int) (int64, error) {
	var count int64
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tickets WHERE status = $1 AND number < $2
	`, models.StatusWaiting, number)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE TABLE tickets`)
	return err
}
