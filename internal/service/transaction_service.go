package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/kasir/internal/alert"
	"github.com/rogerio-castellano/kasir/internal/events"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/shopspring/decimal"
)

// Totals fit NUMERIC(16, 2).
var maxTotal = decimal.RequireFromString("99999999999999.99")

const (
	FieldProductID = "product_id"
	FieldQuantity  = "quantity"
	FieldType      = "type"
	FieldStatus    = "status"
)

// TransactionInput is the transaction form as submitted. Type defaults to
// sale and Status to processing.
type TransactionInput struct {
	ProductID string     `json:"product_id"`
	Quantity  FieldValue `json:"quantity" swaggertype:"integer"`
	Type      string     `json:"type,omitempty" enums:"sale,purchase"`
	Status    string     `json:"status,omitempty" enums:"processing,pending_approval"`
}

type TransactionService struct {
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	alerts       *alert.Monitor
	events       *events.Emitter
	log          *logger.Logger
}

func NewTransactionService(
	products repo.ProductRepository,
	transactions repo.TransactionRepository,
	alerts *alert.Monitor,
	emitter *events.Emitter,
	log *logger.Logger,
) *TransactionService {
	return &TransactionService{
		products:     products,
		transactions: transactions,
		alerts:       alerts,
		events:       emitter,
		log:          log,
	}
}

// validate checks the form against the product's current stock.
func (s *TransactionService) validate(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	var (
		t       models.Transaction
		product models.Product
		found   bool
		verr    ValidationError
	)

	t.ProductID = strings.TrimSpace(in.ProductID)
	if t.ProductID == "" {
		verr.add(FieldProductID, i18n.ProductMustBeSelected)
	} else {
		p, err := s.products.GetByID(ctx, t.ProductID)
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			verr.add(FieldProductID, i18n.ProductNotFoundSelect)
		case err != nil:
			return models.Transaction{}, fmt.Errorf("load product %s: %w", t.ProductID, err)
		default:
			product, found = p, true
		}
	}

	t.Type = models.TransactionType(strings.TrimSpace(in.Type))
	if t.Type == "" {
		t.Type = models.TransactionSale
	}
	if !t.Type.Valid() {
		verr.add(FieldType, i18n.TypeInvalid)
	}

	t.Status = models.TransactionStatus(strings.TrimSpace(in.Status))
	if t.Status == "" {
		t.Status = models.StatusProcessing
	}
	if !t.Status.Valid() {
		verr.add(FieldStatus, i18n.StatusInvalid)
	}

	if in.Quantity.Blank() {
		verr.add(FieldQuantity, i18n.QuantityRequired)
	} else if in.Quantity.exceeds(maxCount) {
		verr.add(FieldQuantity, i18n.QuantityTooLarge, MaxCount)
	} else if q, ok := in.Quantity.integer(); !ok || q <= 0 {
		verr.add(FieldQuantity, i18n.QuantityPositive)
	} else {
		t.Quantity = q
		switch {
		case !found:
		case t.Type == models.TransactionSale && q > product.Stock:
			verr.add(FieldQuantity, i18n.InsufficientStock, product.Stock)
		case t.Type == models.TransactionPurchase && q > MaxCount-product.Stock:
			verr.add(FieldQuantity, i18n.StockTooLarge, MaxCount)
		case models.LineTotal(product.Price, q).GreaterThan(maxTotal):
			verr.add(FieldQuantity, i18n.TotalTooLarge)
		}
	}

	if err := verr.orNil(); err != nil {
		return models.Transaction{}, err
	}

	t.ProductName = product.Name
	t.UnitPrice = product.Price
	t.Total = models.LineTotal(product.Price, t.Quantity)
	return t, nil
}

// Create records a transaction. Processing transactions move stock right away;
// a sale that loses a race for the last units fails with repo.ErrInsufficientStock.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	t, err := s.validate(ctx, in)
	if err != nil {
		return models.Transaction{}, err
	}

	var adjusted models.Product
	delta := t.Type.StockDelta(t.Quantity)
	if t.Status == models.StatusProcessing {
		adjusted, err = s.products.AdjustStock(ctx, t.ProductID, delta)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("apply stock for product %s: %w", t.ProductID, err)
		}
	}

	created, err := s.transactions.Create(ctx, t)
	if err != nil {
		if t.Status == models.StatusProcessing {
			s.revertStock(ctx, t.ProductID, delta)
		}
		return models.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	if t.Status == models.StatusProcessing && t.Type == models.TransactionSale {
		s.alerts.Observe(ctx, adjusted)
	}
	s.events.Emit(ctx, events.TransactionRecorded, created.ProductID, created)
	return created, nil
}

// Approve moves a pending transaction to processing and applies its stock change.
func (s *TransactionService) Approve(ctx context.Context, id string) (models.Transaction, error) {
	t, err := s.transactions.UpdateStatus(ctx, id, models.StatusPendingApproval, models.StatusProcessing)
	if err != nil {
		return models.Transaction{}, err
	}

	adjusted, err := s.products.AdjustStock(ctx, t.ProductID, t.Type.StockDelta(t.Quantity))
	if err != nil {
		if _, revertErr := s.transactions.UpdateStatus(ctx, id, models.StatusProcessing, models.StatusPendingApproval); revertErr != nil {
			s.log.Error().Err(revertErr).Str("transaction_id", id).Msg("failed to revert approval")
		}
		return models.Transaction{}, fmt.Errorf("approve transaction %s: %w", id, err)
	}

	if t.Type == models.TransactionSale {
		s.alerts.Observe(ctx, adjusted)
	}
	s.events.Emit(ctx, events.TransactionApproved, t.ProductID, t)
	return t, nil
}

func (s *TransactionService) revertStock(ctx context.Context, productID string, delta int) {
	if _, err := s.products.AdjustStock(ctx, productID, -delta); err != nil {
		s.log.Error().Err(err).
			Str("product_id", productID).
			Int("delta", -delta).
			Msg("failed to revert stock after transaction error")
	}
}

func (s *TransactionService) Get(ctx context.Context, id string) (models.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

func (s *TransactionService) Search(ctx context.Context, tf repo.TransactionFilter) ([]models.Transaction, int, error) {
	return s.transactions.Filter(ctx, tf)
}
