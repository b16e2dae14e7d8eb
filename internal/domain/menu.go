package domain

import (
	"strings"
	"time"
)

// MenuItem represents a dish on the restaurant menu.
type MenuItem struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMenuItem creates an available menu item and validates it.
func NewMenuItem(name, description string, price float64, category string, now time.Time) (*MenuItem, error) {
	m := &MenuItem{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Category:    strings.TrimSpace(category),
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if errs := m.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return m, nil
}

func (m *MenuItem) Validate() ValidationErrors {
	var errs ValidationErrors

	if m.Name == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	} else if len(m.Name) > 100 {
		errs = append(errs, FieldError{"name", "name must not exceed 100 characters"})
	}

	if m.Price < 0 {
		errs = append(errs, FieldError{"price", "price must not be negative"})
	}

	if m.Category == "" {
		errs = append(errs, FieldError{"category", "category is required"})
	}

	return errs
}
