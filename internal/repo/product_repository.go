package repo

import (
	"context"

	"github.com/rogerio-castellano/kasir/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	// AdjustStock atomically adds delta to the stock, failing with ErrInsufficientStock
	// instead of going below zero.
	AdjustStock(ctx context.Context, id string, delta int) (models.Product, error)
}
