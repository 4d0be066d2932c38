package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/kasir/internal/events"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/shopspring/decimal"
)

// Prices fit NUMERIC(14, 2).
const priceDecimals = 2

var maxPrice = decimal.RequireFromString("999999999999.99")

const (
	FieldName      = "name"
	FieldPrice     = "price"
	FieldStock     = "stock"
	FieldThreshold = "threshold"
)

// ProductInput is the product form as submitted.
type ProductInput struct {
	Name      string     `json:"name"`
	Price     FieldValue `json:"price" swaggertype:"number"`
	Stock     FieldValue `json:"stock" swaggertype:"integer"`
	Threshold FieldValue `json:"threshold" swaggertype:"integer"`
}

// Validate checks every field and returns the product it describes.
func (in ProductInput) Validate() (models.Product, error) {
	var (
		p    models.Product
		verr ValidationError
	)

	p.Name = strings.TrimSpace(in.Name)
	if p.Name == "" {
		verr.add(FieldName, i18n.ProductNameRequired)
	}

	if in.Price.Blank() {
		verr.add(FieldPrice, i18n.PriceRequired)
	} else if price, ok := in.Price.decimal(); !ok || !price.IsPositive() {
		verr.add(FieldPrice, i18n.PricePositive)
	} else if !price.Equal(price.Truncate(priceDecimals)) {
		verr.add(FieldPrice, i18n.PriceTooPrecise)
	} else if price.GreaterThan(maxPrice) {
		verr.add(FieldPrice, i18n.PriceTooLarge)
	} else {
		p.Price = price
	}

	if in.Stock.Blank() {
		verr.add(FieldStock, i18n.StockRequired)
	} else if in.Stock.exceeds(maxCount) {
		verr.add(FieldStock, i18n.StockTooLarge, MaxCount)
	} else if stock, ok := in.Stock.integer(); !ok || stock < 0 {
		verr.add(FieldStock, i18n.StockNonNegative)
	} else {
		p.Stock = stock
	}

	if !in.Threshold.Blank() {
		if in.Threshold.exceeds(maxCount) {
			verr.add(FieldThreshold, i18n.ThresholdTooLarge, MaxCount)
		} else if threshold, ok := in.Threshold.integer(); !ok || threshold < 0 {
			verr.add(FieldThreshold, i18n.ThresholdNonNegative)
		} else {
			p.Threshold = threshold
		}
	}

	return p, verr.orNil()
}

type ProductService struct {
	products repo.ProductRepository
	events   *events.Emitter
}

func NewProductService(products repo.ProductRepository, emitter *events.Emitter) *ProductService {
	return &ProductService{products: products, events: emitter}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p, err := in.Validate()
	if err != nil {
		return models.Product{}, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product %q: %w", p.Name, err)
	}
	s.events.Emit(ctx, events.ProductCreated, created.ID, created)
	return created, nil
}

// Update replaces the editable fields of product id, keeping its identity.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	p, err := in.Validate()
	if err != nil {
		return models.Product{}, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	s.events.Emit(ctx, events.ProductUpdated, updated.ID, updated)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Emit(ctx, events.ProductDeleted, id, map[string]string{"id": id})
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *ProductService) Search(ctx context.Context, pf repo.ProductFilter) ([]models.Product, int, error) {
	return s.products.Filter(ctx, pf)
}

// IsConflict reports whether err is a uniqueness or stock conflict.
func IsConflict(err error) bool {
	return errors.Is(err, repo.ErrDuplicatedValueUnique) ||
		errors.Is(err, repo.ErrInsufficientStock) ||
		errors.Is(err, repo.ErrStatusConflict)
}
