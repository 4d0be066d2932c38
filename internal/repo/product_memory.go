package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/kasir/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Products are kept in creation order.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfName(product.Name, "") >= 0 {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// GetByName retrieves a product by its exact name, ignoring case.
func (r *InMemoryProductRepository) GetByName(_ context.Context, name string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfName(name, ""); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.indexOfName(product.Name, product.ID) >= 0 {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	product.CreatedAt = r.products[i].CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[i] = product
	return product, nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products, total := filterProducts(r.products, pf)
	out := make([]models.Product, len(products))
	copy(out, products)
	return out, total, nil
}

// AdjustStock implements ProductRepository.
func (r *InMemoryProductRepository) AdjustStock(_ context.Context, id string, delta int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.products[i].Stock+delta < 0 {
		return models.Product{}, ErrInsufficientStock
	}

	r.products[i].Stock += delta
	r.products[i].UpdatedAt = time.Now().UTC()
	return r.products[i], nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func (r *InMemoryProductRepository) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryProductRepository) indexOfName(name, exceptID string) int {
	for i, p := range r.products {
		if p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}
