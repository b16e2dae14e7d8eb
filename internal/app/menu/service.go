package menu

import (
	"context"
	"strings"
	"time"

	"tablebook/internal/adapter/logger"
	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type Service struct {
	repo   interfaces.MenuItemRepository
	logger logger.Logger
}

func NewService(repo interfaces.MenuItemRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateMenuItemCommand) (*domain.MenuItem, error) {
	m, err := domain.NewMenuItem(cmd.Name, cmd.Description, cmd.Price, cmd.Category, time.Now())
	if err != nil {
		s.logger.Error("validation_failed", "Menu item validation failed", "", nil, err)
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("db_insert_failed", "Failed to create menu item", "", nil, err)
		return nil, err
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, cmd interfaces.UpdateMenuItemCommand) (*domain.MenuItem, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		m.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		m.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Price != nil {
		m.Price = *cmd.Price
	}
	if cmd.Category != nil {
		m.Category = strings.TrimSpace(*cmd.Category)
	}
	if cmd.Available != nil {
		m.Available = *cmd.Available
	}

	if errs := m.Validate(); len(errs) > 0 {
		s.logger.Error("validation_failed", "Menu item update validation failed", "", nil, errs)
		return nil, errs
	}

	m.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		s.logger.Error("db_update_failed", "Failed to update menu item", "", nil, err)
		return nil, err
	}

	return m, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.MenuItem, error) {
	return s.repo.ListAll(ctx)
}
