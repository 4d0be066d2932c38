package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name string, price int64, stock int) models.Product {
	return models.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock, Threshold: 2}
}

func testProductRepository(t *testing.T, r ProductRepository) {
	ctx := context.Background()

	t.Run("create assigns id and keeps creation order", func(t *testing.T) {
		first, err := r.Create(ctx, newProduct("Kopi Susu", 15000, 10))
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.False(t, first.CreatedAt.IsZero())

		time.Sleep(2 * time.Millisecond)
		second, err := r.Create(ctx, newProduct("Teh Manis", 8000, 5))
		require.NoError(t, err)

		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)
		assert.True(t, decimal.NewFromInt(15000).Equal(all[0].Price))
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := r.Create(ctx, newProduct("kopi susu", 1000, 1))
		assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
	})

	t.Run("get by name and id", func(t *testing.T) {
		p, err := r.GetByName(ctx, "Teh Manis")
		require.NoError(t, err)

		byID, err := r.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Teh Manis", byID.Name)

		_, err = r.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrProductNotFound)
		_, err = r.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("update keeps id and creation time", func(t *testing.T) {
		p, err := r.GetByName(ctx, "Teh Manis")
		require.NoError(t, err)

		p.Name = "Es Teh"
		p.Price = decimal.NewFromInt(9000)
		updated, err := r.Update(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, p.ID, updated.ID)
		assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))

		_, err = r.GetByName(ctx, "Teh Manis")
		assert.ErrorIs(t, err, ErrProductNotFound)

		p.Name = "Kopi Susu"
		_, err = r.Update(ctx, p)
		assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

		_, err = r.Update(ctx, models.Product{ID: "missing", Name: "x", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("filter by name price and stock", func(t *testing.T) {
		minPrice := decimal.NewFromInt(10000)
		products, total, err := r.Filter(ctx, ProductFilter{MinPrice: &minPrice})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Kopi Susu", products[0].Name)

		maxStock := 5
		products, total, err = r.Filter(ctx, ProductFilter{Name: "teh", MaxStock: &maxStock})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Es Teh", products[0].Name)

		offset, limit := 1, 10
		products, total, err = r.Filter(ctx, ProductFilter{Offset: &offset, Limit: &limit})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, products, 1)
	})

	t.Run("adjust stock never goes negative", func(t *testing.T) {
		p, err := r.GetByName(ctx, "Kopi Susu")
		require.NoError(t, err)

		adjusted, err := r.AdjustStock(ctx, p.ID, -4)
		require.NoError(t, err)
		assert.Equal(t, 6, adjusted.Stock)

		_, err = r.AdjustStock(ctx, p.ID, -7)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		_, err = r.AdjustStock(ctx, "missing", 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("concurrent sales stop at zero", func(t *testing.T) {
		p, err := r.Create(ctx, newProduct("Roti Bakar", 12000, 5))
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.AdjustStock(ctx, p.ID, -1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		got, err := r.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
	})

	t.Run("delete", func(t *testing.T) {
		p, err := r.GetByName(ctx, "Roti Bakar")
		require.NoError(t, err)

		require.NoError(t, r.Delete(ctx, p.ID))
		assert.ErrorIs(t, r.Delete(ctx, p.ID), ErrProductNotFound)

		_, err = r.Create(ctx, newProduct("Roti Bakar", 12000, 1))
		assert.NoError(t, err, "name is free again after delete")
	})
}

func testTransactionRepository(t *testing.T, r TransactionRepository) {
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)

	var ids []string
	for i, typ := range []models.TransactionType{models.TransactionSale, models.TransactionPurchase, models.TransactionSale} {
		tx, err := r.Create(ctx, models.Transaction{
			ProductID:   "p-1",
			ProductName: "Kopi Susu",
			Quantity:    i + 1,
			Type:        typ,
			Status:      models.StatusProcessing,
			UnitPrice:   decimal.NewFromInt(15000),
			Total:       models.LineTotal(decimal.NewFromInt(15000), i+1),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		txs, total, err := r.Filter(ctx, TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, ids[2], txs[0].ID)
		assert.Equal(t, ids[0], txs[2].ID)
	})

	t.Run("filter by type and time", func(t *testing.T) {
		txs, total, err := r.Filter(ctx, TransactionFilter{Type: models.TransactionSale})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, txs, 2)

		since := base.Add(30 * time.Second)
		_, total, err = r.Filter(ctx, TransactionFilter{Since: &since})
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		limit := 1
		txs, total, err = r.Filter(ctx, TransactionFilter{Limit: &limit})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, txs, 1)
	})

	t.Run("get by id keeps totals", func(t *testing.T) {
		tx, err := r.GetByID(ctx, ids[1])
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30000).Equal(tx.Total))

		_, err = r.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("conditional status update", func(t *testing.T) {
		pending, err := r.Create(ctx, models.Transaction{
			ProductID: "p-1", ProductName: "Kopi Susu", Quantity: 1,
			Type: models.TransactionSale, Status: models.StatusPendingApproval,
			UnitPrice: decimal.NewFromInt(15000), Total: decimal.NewFromInt(15000),
		})
		require.NoError(t, err)

		approved, err := r.UpdateStatus(ctx, pending.ID, models.StatusPendingApproval, models.StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, models.StatusProcessing, approved.Status)

		_, err = r.UpdateStatus(ctx, pending.ID, models.StatusPendingApproval, models.StatusProcessing)
		assert.ErrorIs(t, err, ErrStatusConflict)

		_, err = r.UpdateStatus(ctx, "missing", models.StatusPendingApproval, models.StatusProcessing)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func testUserRepository(t *testing.T, r UserRepository) {
	ctx := context.Background()

	created, err := r.CreateUser(ctx, models.User{Username: "kasir1", PasswordHash: "hash", Role: models.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = r.CreateUser(ctx, models.User{Username: "kasir1", PasswordHash: "other", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	got, err := r.GetByUsername(ctx, "kasir1")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, models.RoleUser, got.Role)

	_, err = r.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
