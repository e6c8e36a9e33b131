package factory

import (
	"strings"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Material is one inventory line: a quantity on hand, its unit cost and the
// threshold at or below which it counts as low stock.
//
// Invariants:
//   - quantity is never negative
//   - low stock <=> quantity <= minimumStock (boundary inclusive)
type Material struct {
	name         string
	quantity     int
	costPerUnit  shared.Money
	minimumStock int
}

// NewMaterial creates an inventory line
func NewMaterial(name string, quantity int, costPerUnit shared.Money, minimumStock int) (*Material, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ErrInvalidMaterial{Material: name, Field: "name", Reason: "name cannot be empty"}
	}
	if quantity < 0 {
		return nil, &ErrInvalidMaterial{Material: name, Field: "quantity", Reason: "quantity cannot be negative"}
	}
	if costPerUnit.IsNegative() {
		return nil, &ErrInvalidMaterial{Material: name, Field: "cost_per_unit", Reason: "cost per unit cannot be negative"}
	}
	if minimumStock < 0 {
		return nil, &ErrInvalidMaterial{Material: name, Field: "minimum_stock", Reason: "minimum stock cannot be negative"}
	}

	return &Material{
		name:         name,
		quantity:     quantity,
		costPerUnit:  costPerUnit,
		minimumStock: minimumStock,
	}, nil
}

// Getters

func (m *Material) Name() string { return m.name }

func (m *Material) Quantity() int { return m.quantity }

func (m *Material) CostPerUnit() shared.Money { return m.costPerUnit }

func (m *Material) MinimumStock() int { return m.minimumStock }

// IsAvailable reports whether qty can be drawn from stock
func (m *Material) IsAvailable(qty int) bool {
	return qty <= m.quantity
}

// UseQuantity draws amount from stock. When the stock cannot cover it the
// material is left untouched and false is returned.
func (m *Material) UseQuantity(amount int) bool {
	if amount < 0 || !m.IsAvailable(amount) {
		return false
	}
	m.quantity -= amount
	return true
}

// AddQuantity restocks; non-positive amounts are ignored
func (m *Material) AddQuantity(amount int) {
	if amount <= 0 {
		return
	}
	m.quantity += amount
}

// GetShortfall returns how many units are missing to cover qty
func (m *Material) GetShortfall(qty int) int {
	if short := qty - m.quantity; short > 0 {
		return short
	}
	return 0
}

// IsLowStock reports whether stock is at or below the minimum
func (m *Material) IsLowStock() bool {
	return m.quantity <= m.minimumStock
}

// TotalValue returns quantity * unit cost
func (m *Material) TotalValue() shared.Money {
	return m.costPerUnit.MulInt(m.quantity)
}
