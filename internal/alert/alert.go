// Package alert records low-stock warnings raised when a sale leaves a
// product below its restock threshold.
package alert

import (
	"context"
	"time"

	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/models"
)

// maxEntries bounds how many alerts are retained.
const maxEntries = 200

type Entry struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Stock       int       `json:"stock"`
	Threshold   int       `json:"threshold"`
	Time        time.Time `json:"time"`
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Monitor turns stock levels into alert entries.
type Monitor struct {
	rec Recorder
	log *logger.Logger
}

func NewMonitor(rec Recorder, log *logger.Logger) *Monitor {
	return &Monitor{rec: rec, log: log}
}

// Observe records an alert when p is below its threshold. Recording failures
// are logged only.
func (m *Monitor) Observe(ctx context.Context, p models.Product) {
	if !p.LowStock() {
		return
	}

	e := Entry{
		ProductID:   p.ID,
		ProductName: p.Name,
		Stock:       p.Stock,
		Threshold:   p.Threshold,
		Time:        time.Now().UTC(),
	}
	m.log.Warn().
		Str("product_id", p.ID).
		Str("product", p.Name).
		Int("stock", p.Stock).
		Int("threshold", p.Threshold).
		Msg("low stock")

	if err := m.rec.Record(ctx, e); err != nil {
		m.log.Error().Err(err).Str("product_id", p.ID).Msg("failed to record low stock alert")
	}
}

func (m *Monitor) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}
	return m.rec.Recent(ctx, limit)
}
