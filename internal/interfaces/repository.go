package interfaces

import (
	"context"
	"time"

	"tablebook/internal/domain"
)

// ReservationRepository persists reservations. ConfirmByID and CancelByID
// apply the status guard inside a single statement so concurrent actions on
// one reservation cannot interleave.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ReservationFilter) ([]*domain.Reservation, int, error)
	ConfirmByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error)
	CancelByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error)
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *domain.MenuItem) error
	FindByID(ctx context.Context, id int64) (*domain.MenuItem, error)
	Update(ctx context.Context, m *domain.MenuItem) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*domain.MenuItem, error)
}
