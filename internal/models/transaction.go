package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionPurchase
}

// StockDelta returns the signed stock change a transaction of this type causes.
func (t TransactionType) StockDelta(quantity int) int {
	if t == TransactionSale {
		return -quantity
	}
	return quantity
}

type TransactionStatus string

const (
	StatusProcessing      TransactionStatus = "processing"
	StatusPendingApproval TransactionStatus = "pending_approval"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusProcessing || s == StatusPendingApproval
}

// Transaction is a recorded sale or purchase of a single product.
// ProductName and UnitPrice are snapshots taken when the transaction was entered.
type Transaction struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    int               `json:"quantity"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Total       decimal.Decimal   `json:"total"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LineTotal is the unit price multiplied by the quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
