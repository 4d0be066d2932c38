package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/kasir/internal/models"
)

type InMemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions []models.Transaction
}

func NewInMemoryTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{
		transactions: []models.Transaction{},
	}
}

func (r *InMemoryTransactionRepository) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	r.transactions = append(r.transactions, t)
	return t, nil
}

func (r *InMemoryTransactionRepository) GetByID(_ context.Context, id string) (models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, ErrTransactionNotFound
}

func (r *InMemoryTransactionRepository) UpdateStatus(_ context.Context, id string, from, to models.TransactionStatus) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.transactions {
		if t.ID != id {
			continue
		}
		if t.Status != from {
			return models.Transaction{}, ErrStatusConflict
		}
		r.transactions[i].Status = to
		r.transactions[i].UpdatedAt = time.Now().UTC()
		return r.transactions[i], nil
	}
	return models.Transaction{}, ErrTransactionNotFound
}

func (r *InMemoryTransactionRepository) Filter(_ context.Context, tf TransactionFilter) ([]models.Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Transaction{}
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if matchesTransactionFilter(r.transactions[i], tf) {
			filtered = append(filtered, r.transactions[i])
		}
	}
	return paginate(filtered, tf.Offset, tf.Limit), len(filtered), nil
}

func (r *InMemoryTransactionRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = []models.Transaction{}
}
