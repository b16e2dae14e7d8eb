package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type ReservationHandler struct {
	service interfaces.ReservationService
	logger  logger.Logger
}

func NewReservationHandler(service interfaces.ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		logger:  logger,
	}
}

type CreateReservationRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       int    `json:"party_size"`
	ReservationDate string `json:"reservation_date"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type UpdateReservationRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	PartySize       *int    `json:"party_size"`
	ReservationDate *string `json:"reservation_date"`
	SpecialRequests *string `json:"special_requests"`
}

type ReservationResponse struct {
	ID              int64  `json:"id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       int    `json:"party_size"`
	ReservationDate string `json:"reservation_date"`
	SpecialRequests string `json:"special_requests,omitempty"`
	Status          string `json:"status"`
	CanBeCancelled  bool   `json:"can_be_cancelled"`
	FormattedDate   string `json:"formatted_date"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ListReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int                   `json:"total_count"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"per_page"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// HandleReservations serves the /reservations collection.
func (h *ReservationHandler) HandleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
	}
}

// HandleReservation serves /reservations/{id} and the confirm/cancel actions.
func (h *ReservationHandler) HandleReservation(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		h.respondError(w, "Invalid path", http.StatusBadRequest, nil)
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.respondError(w, "Invalid reservation id", http.StatusBadRequest, nil)
		return
	}

	if len(parts) == 3 {
		if r.Method != http.MethodPost {
			h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
			return
		}
		switch parts[2] {
		case "confirm":
			h.confirm(w, r, id)
		case "cancel":
			h.cancel(w, r, id)
		default:
			h.respondError(w, "Not found", http.StatusNotFound, nil)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
	}
}

func (h *ReservationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	date, err := time.Parse(time.RFC3339, req.ReservationDate)
	if err != nil {
		h.respondError(w, "Validation failed", http.StatusBadRequest, []domain.FieldError{
			{Field: "reservation_date", Message: "reservation date must be an RFC 3339 timestamp"},
		})
		return
	}

	cmd := interfaces.CreateReservationCommand{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		PartySize:       req.PartySize,
		ReservationDate: date,
		SpecialRequests: req.SpecialRequests,
	}

	res, err := h.service.Create(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toReservationResponse(res, time.Now()))
}

func (h *ReservationHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationResponse(res, time.Now()))
}

func (h *ReservationHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	cmd := interfaces.UpdateReservationCommand{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	}

	if req.ReservationDate != nil {
		date, err := time.Parse(time.RFC3339, *req.ReservationDate)
		if err != nil {
			h.respondError(w, "Validation failed", http.StatusBadRequest, []domain.FieldError{
				{Field: "reservation_date", Message: "reservation date must be an RFC 3339 timestamp"},
			})
			return
		}
		cmd.ReservationDate = &date
	}

	res, err := h.service.Update(r.Context(), id, cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationResponse(res, time.Now()))
}

func (h *ReservationHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReservationHandler) confirm(w http.ResponseWriter, r *http.Request, id int64) {
	res, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationResponse(res, time.Now()))
}

func (h *ReservationHandler) cancel(w http.ResponseWriter, r *http.Request, id int64) {
	res, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationResponse(res, time.Now()))
}

func (h *ReservationHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := h.parseFilter(r)

	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	now := time.Now()
	resp := ListReservationsResponse{
		Reservations: make([]ReservationResponse, len(items)),
		TotalCount:   total,
		Page:         filter.Page,
		PerPage:      filter.PerPage,
	}
	for i, res := range items {
		resp.Reservations[i] = toReservationResponse(res, now)
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// parseFilter reads list query parameters. Malformed date values are
// dropped rather than rejected so a bad query string cannot break the
// index view.
func (h *ReservationHandler) parseFilter(r *http.Request) interfaces.ReservationFilter {
	q := r.URL.Query()

	filter := interfaces.ReservationFilter{
		Status:        domain.Status(q.Get("status")),
		CustomerEmail: q.Get("customer_email"),
	}

	filter.Date = h.parseDateParam(q.Get("date"), "date")
	filter.StartDate = h.parseDateParam(q.Get("start_date"), "start_date")
	filter.EndDate = h.parseDateParam(q.Get("end_date"), "end_date")

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		filter.PerPage = perPage
	}

	filter.Normalize()
	return filter
}

func (h *ReservationHandler) parseDateParam(value, name string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		h.logger.Debug("filter_date_ignored", "Ignoring malformed date filter", "", map[string]interface{}{
			"param": name,
			"value": value,
		})
		return nil
	}
	return &t
}

func (h *ReservationHandler) respondDomainError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.respondError(w, "Validation failed", http.StatusBadRequest, verrs)
	case errors.Is(err, domain.ErrInvalidRange):
		h.respondError(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, "Reservation not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrNotCancellable):
		h.respondError(w, err.Error(), http.StatusUnprocessableEntity, nil)
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		h.respondError(w, err.Error(), http.StatusUnprocessableEntity, nil)
	default:
		h.logger.Error("request_failed", "Unexpected error", "", nil, err)
		h.respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

func (h *ReservationHandler) respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func (h *ReservationHandler) respondError(w http.ResponseWriter, message string, statusCode int, fieldErrors []domain.FieldError) {
	h.respondJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: fieldErrors,
	})
}

func toReservationResponse(res *domain.Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ID:              res.ID,
		CustomerName:    res.CustomerName,
		CustomerEmail:   res.CustomerEmail,
		CustomerPhone:   res.CustomerPhone,
		PartySize:       res.PartySize,
		ReservationDate: res.ReservationDate.Format(time.RFC3339),
		SpecialRequests: res.SpecialRequests,
		Status:          string(res.Status),
		CanBeCancelled:  res.CanBeCancelled(now),
		FormattedDate:   res.FormattedDate(),
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       res.UpdatedAt.Format(time.RFC3339),
	}
}
