package domain

import (
	"testing"
	"time"
)

func TestNewMenuItem(t *testing.T) {
	now := time.Now()

	m, err := NewMenuItem("Margherita", "Tomato, mozzarella, basil", 12.50, "pizza", now)
	if err != nil {
		t.Fatalf("NewMenuItem() error = %v", err)
	}

	if !m.Available {
		t.Error("Available = false, want true by default")
	}
	if m.Name != "Margherita" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestMenuItemValidate(t *testing.T) {
	tests := []struct {
		name      string
		item      MenuItem
		wantField string
	}{
		{"missing name", MenuItem{Price: 10, Category: "pizza"}, "name"},
		{"negative price", MenuItem{Name: "Margherita", Price: -1, Category: "pizza"}, "price"},
		{"missing category", MenuItem{Name: "Margherita", Price: 10}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.item.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Validate() first error field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}

	valid := MenuItem{Name: "Margherita", Price: 0, Category: "pizza"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors (zero price is allowed)", errs)
	}
}
