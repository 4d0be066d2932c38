package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/kasir/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	// UpdateStatus moves a transaction from one status to another. It fails with
	// ErrStatusConflict when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to models.TransactionStatus) (models.Transaction, error)
	Filter(ctx context.Context, tf TransactionFilter) ([]models.Transaction, int, error)
}

// TransactionFilter narrows transaction listings. Results are newest first.
type TransactionFilter struct {
	ProductID string
	Type      models.TransactionType
	Status    models.TransactionStatus
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}

func matchesTransactionFilter(t models.Transaction, tf TransactionFilter) bool {
	if tf.ProductID != "" && t.ProductID != tf.ProductID {
		return false
	}
	if tf.Type != "" && t.Type != tf.Type {
		return false
	}
	if tf.Status != "" && t.Status != tf.Status {
		return false
	}
	if tf.Since != nil && t.CreatedAt.Before(*tf.Since) {
		return false
	}
	if tf.Until != nil && t.CreatedAt.After(*tf.Until) {
		return false
	}
	return true
}
