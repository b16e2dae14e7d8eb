package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tablebook/internal/domain"
	"tablebook/internal/interfaces"
)

type menuItemRepository struct {
	db DB
}

func NewMenuItemRepository(db DB) interfaces.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, m *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (name, description, price, category, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		m.Name, m.Description, m.Price, m.Category, m.Available, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *menuItemRepository) FindByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, available, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var m domain.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.Category, &m.Available, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find menu item: %w", err)
	}
	return &m, nil
}

func (r *menuItemRepository) Update(ctx context.Context, m *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, available = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query,
		m.Name, m.Description, m.Price, m.Category, m.Available, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *menuItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *menuItemRepository) ListAll(ctx context.Context) ([]*domain.MenuItem, error) {
	query := `
		SELECT id, name, description, price, category, available, created_at, updated_at
		FROM menu_items
		ORDER BY category, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Price, &m.Category, &m.Available, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}
