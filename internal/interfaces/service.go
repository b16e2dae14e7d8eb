package interfaces

import (
	"context"
	"time"

	"tablebook/internal/domain"
)

type CreateReservationCommand struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       int
	ReservationDate time.Time
	SpecialRequests string
}

// UpdateReservationCommand carries a partial edit; nil fields are left
// unchanged.
type UpdateReservationCommand struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	PartySize       *int
	ReservationDate *time.Time
	SpecialRequests *string
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ReservationFilter narrows and paginates reservation listings. Date
// restricts to a single calendar day; StartDate/EndDate form an inclusive
// day range. All date bounds are widened to whole days by the repository.
type ReservationFilter struct {
	Status        domain.Status
	Date          *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	CustomerEmail string
	Page          int
	PerPage       int
}

// Normalize applies pagination defaults and clamps per_page.
func (f *ReservationFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage == 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage < 1 {
		f.PerPage = 1
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// Offset returns the row offset for the normalized page.
func (f ReservationFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type ReservationService interface {
	Create(ctx context.Context, cmd CreateReservationCommand) (*domain.Reservation, error)
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, id int64, cmd UpdateReservationCommand) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ReservationFilter) ([]*domain.Reservation, int, error)
	Confirm(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64) (*domain.Reservation, error)
}

type CreateMenuItemCommand struct {
	Name        string
	Description string
	Price       float64
	Category    string
}

type UpdateMenuItemCommand struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Available   *bool
}

type MenuService interface {
	Create(ctx context.Context, cmd CreateMenuItemCommand) (*domain.MenuItem, error)
	Get(ctx context.Context, id int64) (*domain.MenuItem, error)
	Update(ctx context.Context, id int64, cmd UpdateMenuItemCommand) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.MenuItem, error)
}
