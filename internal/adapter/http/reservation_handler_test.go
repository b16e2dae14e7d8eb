package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type stubReservationService struct {
	reservation *domain.Reservation
	err         error
	lastFilter  interfaces.ReservationFilter
}

func (s *stubReservationService) Create(ctx context.Context, cmd interfaces.CreateReservationCommand) (*domain.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) Update(ctx context.Context, id int64, cmd interfaces.UpdateReservationCommand) (*domain.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) Delete(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubReservationService) List(ctx context.Context, filter interfaces.ReservationFilter) ([]*domain.Reservation, int, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	if s.reservation == nil {
		return nil, 0, nil
	}
	return []*domain.Reservation{s.reservation}, 1, nil
}

func (s *stubReservationService) Confirm(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservation, s.err
}

func sampleReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		CustomerName:    "Alice Smith",
		CustomerEmail:   "alice@example.com",
		CustomerPhone:   "555-0101",
		PartySize:       4,
		ReservationDate: time.Now().Add(26 * time.Hour),
		Status:          domain.StatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func newHandler(svc interfaces.ReservationService) *ReservationHandler {
	return NewReservationHandler(svc, logger.New("test"))
}

func TestCreateReservationHandler(t *testing.T) {
	svc := &stubReservationService{reservation: sampleReservation()}
	h := newHandler(svc)

	body := `{"customer_name":"Alice Smith","customer_email":"alice@example.com","customer_phone":"555-0101","party_size":4,"reservation_date":"` +
		sampleReservation().ReservationDate.Format(time.RFC3339) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleReservations(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp ReservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.CanBeCancelled {
		t.Error("can_be_cancelled = false, want true for a pending booking a day out")
	}
	if resp.FormattedDate == "" {
		t.Error("formatted_date is empty")
	}
}

func TestCreateReservationHandlerBadDate(t *testing.T) {
	h := newHandler(&stubReservationService{})

	body := `{"customer_name":"Alice","reservation_date":"not-a-date"}`
	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleReservations(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "reservation_date" {
		t.Errorf("errors = %+v, want one reservation_date error", resp.Errors)
	}
}

func TestCreateReservationHandlerValidationErrors(t *testing.T) {
	svc := &stubReservationService{err: domain.ValidationErrors{
		{Field: "party_size", Message: "party size must be between 1 and 12"},
	}}
	h := newHandler(svc)

	body := `{"customer_name":"Alice","reservation_date":"2026-06-14T19:00:00Z","party_size":40}`
	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleReservations(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "party_size" {
		t.Errorf("errors = %+v, want one party_size error", resp.Errors)
	}
}

func TestListHandlerPermissiveFilters(t *testing.T) {
	svc := &stubReservationService{}
	h := newHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/reservations?date=garbage&per_page=200&page=2&status=pending", nil)
	w := httptest.NewRecorder()
	h.HandleReservations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (malformed date must be ignored)", w.Code)
	}
	if svc.lastFilter.Date != nil {
		t.Error("malformed date filter was not dropped")
	}
	if svc.lastFilter.PerPage != interfaces.MaxPerPage {
		t.Errorf("PerPage = %d, want %d", svc.lastFilter.PerPage, interfaces.MaxPerPage)
	}
	if svc.lastFilter.Page != 2 {
		t.Errorf("Page = %d, want 2", svc.lastFilter.Page)
	}
	if svc.lastFilter.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", svc.lastFilter.Status)
	}
}

func TestGetReservationHandlerNotFound(t *testing.T) {
	h := newHandler(&stubReservationService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/reservations/42", nil)
	w := httptest.NewRecorder()
	h.HandleReservation(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReservationHandlerBadID(t *testing.T) {
	h := newHandler(&stubReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/reservations/abc", nil)
	w := httptest.NewRecorder()
	h.HandleReservation(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCancelHandlerNotCancellable(t *testing.T) {
	h := newHandler(&stubReservationService{err: domain.ErrNotCancellable})

	req := httptest.NewRequest(http.MethodPost, "/reservations/1/cancel", nil)
	w := httptest.NewRecorder()
	h.HandleReservation(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestConfirmHandlerInvalidTransition(t *testing.T) {
	h := newHandler(&stubReservationService{err: domain.ErrInvalidStatusTransition})

	req := httptest.NewRequest(http.MethodPost, "/reservations/1/confirm", nil)
	w := httptest.NewRecorder()
	h.HandleReservation(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestDeleteReservationHandler(t *testing.T) {
	h := newHandler(&stubReservationService{})

	req := httptest.NewRequest(http.MethodDelete, "/reservations/1", nil)
	w := httptest.NewRecorder()
	h.HandleReservation(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
