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

const transactionColumns = `id, product_id, product_name, quantity, type, status, unit_price, total, created_at, updated_at`

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.ProductID, &t.ProductName, &t.Quantity, &t.Type, &t.Status,
		&t.UnitPrice, &t.Total, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.ProductID, t.ProductName, t.Quantity, string(t.Type), string(t.Status),
		t.UnitPrice, t.Total, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t, err := scanTransaction(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrTransactionNotFound
	}
	return t, err
}

func (r *PostgresTransactionRepository) UpdateStatus(ctx context.Context, id string, from, to models.TransactionStatus) (models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE transactions SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, string(to), time.Now().UTC(), id, string(from)))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return models.Transaction{}, getErr
		}
		return models.Transaction{}, ErrStatusConflict
	}
	return t, err
}

func (r *PostgresTransactionRepository) Filter(ctx context.Context, tf TransactionFilter) ([]models.Transaction, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	conditions, args := transactionFilterConditions(tf)

	var totalCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE 1=1"+conditions, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1` + conditions + ` ORDER BY created_at DESC, id DESC`
	query, args = appendPaging(query, args, tf.Offset, tf.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	return transactions, totalCount, rows.Err()
}

func transactionFilterConditions(tf TransactionFilter) (string, []any) {
	query := ""
	args := []any{}

	if tf.ProductID != "" {
		args = append(args, tf.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if tf.Type != "" {
		args = append(args, string(tf.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if tf.Status != "" {
		args = append(args, string(tf.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if tf.Since != nil {
		args = append(args, *tf.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if tf.Until != nil {
		args = append(args, *tf.Until)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return query, args
}
