package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/kasir/internal/models"
)

const productColumns = `id, name, price, stock, threshold, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Threshold, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.Stock, p.Threshold, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, _, err := r.Filter(ctx, ProductFilter{})
	return products, err
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name) = lower($1)`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE products SET name = $1, price = $2, stock = $3, threshold = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, p.Name, p.Price, p.Stock, p.Threshold, time.Now().UTC(), p.ID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Product{}, ErrProductNotFound
	case isUniqueViolation(err):
		return models.Product{}, ErrDuplicatedValueUnique
	case err != nil:
		return models.Product{}, fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return updated, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	conditions, args := productFilterConditions(pf)

	var totalCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE 1=1"+conditions, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + ` ORDER BY created_at, id`
	query, args = appendPaging(query, args, pf.Offset, pf.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, totalCount, rows.Err()
}

func productFilterConditions(pf ProductFilter) (string, []any) {
	query := ""
	args := []any{}

	if pf.Name != "" {
		args = append(args, "%"+pf.Name+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if pf.MinPrice != nil {
		args = append(args, *pf.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if pf.MaxPrice != nil {
		args = append(args, *pf.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if pf.MinStock != nil {
		args = append(args, *pf.MinStock)
		query += fmt.Sprintf(" AND stock >= $%d", len(args))
	}
	if pf.MaxStock != nil {
		args = append(args, *pf.MaxStock)
		query += fmt.Sprintf(" AND stock <= $%d", len(args))
	}
	return query, args
}

func appendPaging(query string, args []any, offset, limit *int) (string, []any) {
	if limit != nil && *limit > 0 {
		args = append(args, *limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset != nil && *offset > 0 {
		args = append(args, *offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

// AdjustStock applies the delta in a single guarded UPDATE so concurrent sales
// can never drive the stock below zero.
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE products
		SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND stock + $1 >= 0
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return models.Product{}, err
		}
		if !exists {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, ErrInsufficientStock
	}
	return p, err
}
