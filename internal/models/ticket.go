package models

import (
	"errors"
	"fmt"
	"time"
)

// Status is the closed set of states a ticket moves through. Staff may set
// any status from any other; completed tickets drop out of the active list.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCalled    Status = "called"
	StatusCompleted Status = "completed"
)

var ErrUnknownStatus = errors.New("unknown status")

// ParseStatus maps a wire label to a Status. Unrecognized labels are an
// input error, never stored.
func ParseStatus(label string) (Status, error) {
	switch Status(label) {
	case StatusWaiting, StatusCalled, StatusCompleted:
		return Status(label), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, label)
	}
}

// MaxTicketNumber is the highest number issued before the counter wraps
// back to 1.
const MaxTicketNumber = 999

type Ticket struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	GroupSize int       `json:"group_size"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
