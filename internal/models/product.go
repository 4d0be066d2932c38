package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the point-of-sale catalogue.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Threshold int             `json:"threshold"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LowStock reports whether the product fell below its restock threshold.
func (p Product) LowStock() bool {
	return p.Stock < p.Threshold
}

// Available reports whether at least one unit can be sold.
func (p Product) Available() bool {
	return p.Stock > 0
}
