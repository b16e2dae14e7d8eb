package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type Service struct {
	repo      interfaces.ReservationRepository
	publisher interfaces.MessagePublisher
	logger    logger.Logger
}

func NewService(repo interfaces.ReservationRepository, publisher interfaces.MessagePublisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateReservationCommand) (*domain.Reservation, error) {
	now := time.Now()

	r, err := domain.NewReservation(
		cmd.CustomerName,
		cmd.CustomerEmail,
		cmd.CustomerPhone,
		cmd.PartySize,
		cmd.ReservationDate,
		cmd.SpecialRequests,
		now,
	)
	if err != nil {
		s.logger.Error("validation_failed", "Reservation validation failed", "", nil, err)
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("db_insert_failed", "Failed to create reservation", "", nil, err)
		return nil, err
	}

	s.logger.Debug("reservation_created", "Reservation created in DB", "", map[string]interface{}{
		"reservation_id": r.ID,
	})

	// Confirmation notification is best effort: a publish failure must
	// never fail the booking itself.
	msg := interfaces.ReservationCreatedMessage{
		ReservationID:   r.ID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		PartySize:       r.PartySize,
		ReservationDate: r.ReservationDate,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
	if err := s.publisher.PublishReservationCreated(ctx, msg); err != nil {
		s.logger.Warn("notification_publish_failed", "Failed to publish confirmation notification", "", map[string]interface{}{
			"reservation_id": r.ID,
			"error":          err.Error(),
		})
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, cmd interfaces.UpdateReservationCommand) (*domain.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.CustomerName != nil {
		r.CustomerName = strings.TrimSpace(*cmd.CustomerName)
	}
	if cmd.CustomerEmail != nil {
		r.CustomerEmail = strings.TrimSpace(*cmd.CustomerEmail)
	}
	if cmd.CustomerPhone != nil {
		r.CustomerPhone = strings.TrimSpace(*cmd.CustomerPhone)
	}
	if cmd.PartySize != nil {
		r.PartySize = *cmd.PartySize
	}
	if cmd.ReservationDate != nil {
		r.ReservationDate = *cmd.ReservationDate
	}
	if cmd.SpecialRequests != nil {
		r.SpecialRequests = strings.TrimSpace(*cmd.SpecialRequests)
	}

	now := time.Now()
	if errs := r.Validate(now); len(errs) > 0 {
		s.logger.Error("validation_failed", "Reservation update validation failed", "", map[string]interface{}{
			"reservation_id": id,
		}, errs)
		return nil, errs
	}

	r.UpdatedAt = now
	if err := s.repo.Update(ctx, r); err != nil {
		s.logger.Error("db_update_failed", "Failed to update reservation", "", nil, err)
		return nil, err
	}

	// No notification on edits; it is sent on creation only.
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("reservation_deleted", "Reservation deleted", "", map[string]interface{}{
		"reservation_id": id,
	})
	return nil
}

func (s *Service) List(ctx context.Context, filter interfaces.ReservationFilter) ([]*domain.Reservation, int, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, 0, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange,
			filter.StartDate.Format("2006-01-02"), filter.EndDate.Format("2006-01-02"))
	}

	// Unknown status values are dropped rather than rejected so stale
	// query strings keep the index view working.
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		s.logger.Debug("filter_status_ignored", "Ignoring unknown status filter", "", map[string]interface{}{
			"status": string(filter.Status),
		})
		filter.Status = ""
	}

	filter.Normalize()

	return s.repo.List(ctx, filter)
}

func (s *Service) Confirm(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.repo.ConfirmByID(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation_confirmed", "Reservation confirmed", "", map[string]interface{}{
		"reservation_id": id,
	})
	return r, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.repo.CancelByID(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation_cancelled", "Reservation cancelled", "", map[string]interface{}{
		"reservation_id": id,
	})
	return r, nil
}
