package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/rogerio-castellano/kasir/internal/repo"
)

var ErrUnsupportedFormat = errors.New("format must be 'csv' or 'json'")

var exportHeader = []string{
	"id", "product_id", "product_name", "type", "status", "quantity", "unit_price", "total", "created_at",
}

// Export writes every transaction matching tf, newest first, as csv or json.
func (s *TransactionService) Export(ctx context.Context, w io.Writer, format string, tf repo.TransactionFilter) error {
	if format != "csv" && format != "json" {
		return ErrUnsupportedFormat
	}

	tf.Offset, tf.Limit = nil, nil
	transactions, _, err := s.transactions.Filter(ctx, tf)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(transactions)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range transactions {
		err := cw.Write([]string{
			t.ID,
			t.ProductID,
			t.ProductName,
			string(t.Type),
			string(t.Status),
			strconv.Itoa(t.Quantity),
			t.UnitPrice.String(),
			t.Total.String(),
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
