package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type reservationRepository struct {
	db DB
}

func NewReservationRepository(db DB) interfaces.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, customer_name, customer_email, customer_phone, party_size,
	       reservation_date, special_requests, status, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (customer_name, customer_email, customer_phone, party_size,
		                          reservation_date, special_requests, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		res.CustomerName, res.CustomerEmail, res.CustomerPhone, res.PartySize,
		res.ReservationDate, res.SpecialRequests, res.Status, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET customer_name = $1, customer_email = $2, customer_phone = $3, party_size = $4,
		    reservation_date = $5, special_requests = $6, updated_at = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		res.CustomerName, res.CustomerEmail, res.CustomerPhone, res.PartySize,
		res.ReservationDate, res.SpecialRequests, res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) List(ctx context.Context, filter interfaces.ReservationFilter) ([]*domain.Reservation, int, error) {
	where, args := buildReservationFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM reservations` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+reservationColumns+` FROM reservations%s
		ORDER BY reservation_date ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PerPage, filter.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var items []*domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reservation: %w", err)
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reservations: %w", err)
	}

	return items, total, nil
}

// ConfirmByID flips the status inside a single UPDATE so a concurrent
// action on the same reservation cannot interleave with the guard.
func (r *reservationRepository) ConfirmByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	allowed := domain.ConfirmableStatuses()
	statuses := make([]string, len(allowed))
	for i, s := range allowed {
		statuses[i] = string(s)
	}

	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4)
		RETURNING ` + reservationColumns

	res, err := scanReservation(r.db.QueryRow(ctx, query, domain.StatusConfirmed, now, id, statuses))
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}

	// Nothing matched: distinguish a missing row from a terminal status.
	if _, ferr := r.FindByID(ctx, id); ferr != nil {
		return nil, ferr
	}
	return nil, domain.ErrInvalidStatusTransition
}

// CancelByID applies the cancellation cutoff inside the UPDATE's WHERE
// clause for the same atomicity reason.
func (r *reservationRepository) CancelByID(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	allowed := domain.CancellableStatuses()
	statuses := make([]string, len(allowed))
	for i, s := range allowed {
		statuses[i] = string(s)
	}

	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4) AND reservation_date > $5
		RETURNING ` + reservationColumns

	cutoff := now.Add(domain.CancellationCutoff)
	res, err := scanReservation(r.db.QueryRow(ctx, query, domain.StatusCancelled, now, id, statuses, cutoff))
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	if _, ferr := r.FindByID(ctx, id); ferr != nil {
		return nil, ferr
	}
	return nil, domain.ErrNotCancellable
}

func buildReservationFilter(filter interfaces.ReservationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.CustomerEmail != "" {
		add("customer_email = $%d", filter.CustomerEmail)
	}
	if filter.Date != nil {
		day := startOfDay(*filter.Date)
		add("reservation_date >= $%d", day)
		add("reservation_date < $%d", day.AddDate(0, 0, 1))
	}
	if filter.StartDate != nil {
		add("reservation_date >= $%d", startOfDay(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add("reservation_date < $%d", startOfDay(*filter.EndDate).AddDate(0, 0, 1))
	}

	if len(conds) == 0 {
		return "", nil
	}

	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func scanReservation(row Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID, &res.CustomerName, &res.CustomerEmail, &res.CustomerPhone, &res.PartySize,
		&res.ReservationDate, &res.SpecialRequests, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
