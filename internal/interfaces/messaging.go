package interfaces

import (
	"context"
	"time"

	"tablebook/internal/domain"
)

// ReservationCreatedMessage is published after a reservation is persisted
// and drives the confirmation notification to the customer.
type ReservationCreatedMessage struct {
	ReservationID   int64         `json:"reservation_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	PartySize       int           `json:"party_size"`
	ReservationDate time.Time     `json:"reservation_date"`
	Status          domain.Status `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

type MessagePublisher interface {
	PublishReservationCreated(ctx context.Context, msg ReservationCreatedMessage) error
}

type ReservationNotificationHandler func(ctx context.Context, body []byte) error

type MessageConsumer interface {
	ConsumeReservationNotifications(ctx context.Context, handler ReservationNotificationHandler) error
}
