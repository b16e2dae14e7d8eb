package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// OpeningHour and ClosingHour bound valid reservation times; the
	// closing hour itself is excluded.
	OpeningHour = 17
	ClosingHour = 22

	// CancellationCutoff is how far before the reservation time a
	// customer may still cancel.
	CancellationCutoff = 2 * time.Hour

	MinPartySize = 1
	MaxPartySize = 12
)

var (
	ErrNotFound                = errors.New("reservation not found")
	ErrNotCancellable          = errors.New("reservation can no longer be cancelled")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidRange            = errors.New("start date must not be after end date")
)

// Reservation represents a table booking.
type Reservation struct {
	ID              int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       int
	ReservationDate time.Time
	SpecialRequests string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects per-field validation failures.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewReservation creates a pending reservation and validates it against
// the booking rules.
func NewReservation(name, email, phone string, partySize int, date time.Time, specialRequests string, now time.Time) (*Reservation, error) {
	r := &Reservation{
		CustomerName:    strings.TrimSpace(name),
		CustomerEmail:   strings.TrimSpace(email),
		CustomerPhone:   strings.TrimSpace(phone),
		PartySize:       partySize,
		ReservationDate: date,
		SpecialRequests: strings.TrimSpace(specialRequests),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if errs := r.Validate(now); len(errs) > 0 {
		return nil, errs
	}

	return r, nil
}

// Validate applies the booking rules and returns one error per invalid field.
func (r *Reservation) Validate(now time.Time) ValidationErrors {
	var errs ValidationErrors

	if r.CustomerName == "" {
		errs = append(errs, FieldError{"customer_name", "customer name is required"})
	} else if len(r.CustomerName) > 100 {
		errs = append(errs, FieldError{"customer_name", "customer name must not exceed 100 characters"})
	}

	if r.CustomerEmail == "" {
		errs = append(errs, FieldError{"customer_email", "customer email is required"})
	} else if !emailRegex.MatchString(r.CustomerEmail) {
		errs = append(errs, FieldError{"customer_email", "customer email is not a valid email address"})
	}

	if r.CustomerPhone == "" {
		errs = append(errs, FieldError{"customer_phone", "customer phone is required"})
	}

	if r.PartySize < MinPartySize || r.PartySize > MaxPartySize {
		errs = append(errs, FieldError{"party_size", fmt.Sprintf("party size must be between %d and %d", MinPartySize, MaxPartySize)})
	}

	if r.ReservationDate.IsZero() {
		errs = append(errs, FieldError{"reservation_date", "reservation date is required"})
	} else {
		if fe, ok := ValidateFutureDate(r.ReservationDate, now); !ok {
			errs = append(errs, fe)
		}
		if fe, ok := ValidateBusinessHours(r.ReservationDate); !ok {
			errs = append(errs, fe)
		}
	}

	return errs
}

// ValidateFutureDate rejects dates at or before now.
func ValidateFutureDate(date, now time.Time) (FieldError, bool) {
	if !date.After(now) {
		return FieldError{"reservation_date", "reservation date must be in the future"}, false
	}
	return FieldError{}, true
}

// ValidateBusinessHours rejects times outside the restaurant's open window.
func ValidateBusinessHours(date time.Time) (FieldError, bool) {
	h := date.Hour()
	if h < OpeningHour || h >= ClosingHour {
		return FieldError{"reservation_date", fmt.Sprintf("reservation time must be between %d:00 and %d:00", OpeningHour, ClosingHour)}, false
	}
	return FieldError{}, true
}

// CanBeCancelled reports whether a reservation in the given status, booked
// for the given time, may still be cancelled at now. Only pending
// reservations more than the cutoff away qualify.
func CanBeCancelled(status Status, reservationDate, now time.Time) bool {
	return status == StatusPending && reservationDate.After(now.Add(CancellationCutoff))
}

// CanBeCancelled reports whether the reservation may be cancelled at now.
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	return CanBeCancelled(r.Status, r.ReservationDate, now)
}

// CanTransitionTo checks the transition map.
func (r *Reservation) CanTransitionTo(newStatus Status) bool {
	for _, s := range validTransitions[r.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Confirm moves the reservation to confirmed. Confirming a terminal
// reservation is rejected.
func (r *Reservation) Confirm(now time.Time) error {
	if !r.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	return nil
}

// Cancel moves the reservation to cancelled. Any non-terminal reservation
// qualifies as long as the cutoff has not passed.
func (r *Reservation) Cancel(now time.Time) error {
	if !r.CanTransitionTo(StatusCancelled) {
		return ErrNotCancellable
	}
	if !r.ReservationDate.After(now.Add(CancellationCutoff)) {
		return ErrNotCancellable
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now
	return nil
}

// FormattedDate renders the reservation time for customer-facing output,
// e.g. "June 14, 2026 at 7:00 PM".
func (r *Reservation) FormattedDate() string {
	return r.ReservationDate.Format("January 2, 2006 at 3:04 PM")
}
