package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rogerio-castellano/kasir/internal/events"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type ImportMode string

const (
	ImportSkip   ImportMode = "skip"
	ImportUpdate ImportMode = "update"
)

// ParseImportMode defaults to skip for anything but "update".
func ParseImportMode(s string) ImportMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ImportUpdate)) {
		return ImportUpdate
	}
	return ImportSkip
}

var ErrInvalidCSV = errors.New("invalid CSV")

// RowError reports one rejected CSV row. Row is 1-based and counts the header.
type RowError struct {
	Row int
	FieldError
}

type ImportResult struct {
	Created int
	Updated int
	Errors  []RowError
}

func (r ImportResult) Imported() int { return r.Created + r.Updated }

// DecodeCSV wraps r so Latin-1 exports (spreadsheet defaults) are read as UTF-8.
func DecodeCSV(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "latin1", "iso-8859-1", "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return r
	}
}

// Import reads name,price,stock[,threshold] rows. Valid rows are saved and
// invalid ones reported without stopping the import.
func (s *ProductService) Import(ctx context.Context, r io.Reader, mode ImportMode) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: missing header", ErrInvalidCSV)
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{FieldName, FieldPrice, FieldStock} {
		if _, ok := index[col]; !ok {
			return ImportResult{}, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, col)
		}
	}

	cell := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var result ImportResult
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		in := ProductInput{
			Name:      cell(record, FieldName),
			Price:     FieldValue(cell(record, FieldPrice)),
			Stock:     FieldValue(cell(record, FieldStock)),
			Threshold: FieldValue(cell(record, FieldThreshold)),
		}
		p, err := in.Validate()
		if err != nil {
			var verr *ValidationError
			errors.As(err, &verr)
			for _, f := range verr.Fields {
				result.Errors = append(result.Errors, RowError{Row: rowNum, FieldError: f})
			}
			continue
		}

		if rowErr := s.importRow(ctx, p, mode, &result); rowErr != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, FieldError: *rowErr})
		}
	}
	return result, nil
}

func (s *ProductService) importRow(ctx context.Context, p models.Product, mode ImportMode, result *ImportResult) *FieldError {
	existing, err := s.products.GetByName(ctx, p.Name)
	switch {
	case err == nil:
		if mode == ImportSkip {
			return &FieldError{Field: FieldName, Message: i18n.ProductNameTaken}
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		updated, err := s.products.Update(ctx, p)
		if err != nil {
			return &FieldError{Field: FieldName, Message: i18n.ProductSaveFailed}
		}
		s.events.Emit(ctx, events.ProductUpdated, updated.ID, updated)
		result.Updated++
	case errors.Is(err, repo.ErrProductNotFound):
		created, err := s.products.Create(ctx, p)
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return &FieldError{Field: FieldName, Message: i18n.ProductNameTaken}
		}
		if err != nil {
			return &FieldError{Field: FieldName, Message: i18n.ProductSaveFailed}
		}
		s.events.Emit(ctx, events.ProductCreated, created.ID, created)
		result.Created++
	default:
		return &FieldError{Field: FieldName, Message: i18n.ProductSaveFailed}
	}
	return nil
}
