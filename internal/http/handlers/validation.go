package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/rogerio-castellano/kasir/internal/service"
)

// FieldValidationError is one entry of a 400/409 form error response.
type FieldValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, status int, fields []service.FieldError) {
	tag := lang(r)
	errs := make([]FieldValidationError, len(fields))
	for i, f := range fields {
		errs[i] = FieldValidationError{Field: f.Field, Description: i18n.T(tag, f.Message, f.Args...)}
	}
	respond(w, r, status, errs)
}

func writeFieldError(w http.ResponseWriter, r *http.Request, status int, field, key string) {
	writeValidationErrors(w, r, status, []service.FieldError{{Field: field, Message: key}})
}

// writeServiceError maps service and repository errors to responses.
// saveKey is the generic message used for unexpected failures.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, saveKey string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationErrors(w, r, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, repo.ErrProductNotFound):
		fail(w, r, http.StatusNotFound, i18n.ProductNotFound)
	case errors.Is(err, repo.ErrTransactionNotFound):
		fail(w, r, http.StatusNotFound, i18n.TransactionNotFound)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeFieldError(w, r, http.StatusConflict, service.FieldName, i18n.ProductNameTaken)
	case errors.Is(err, repo.ErrInsufficientStock):
		writeFieldError(w, r, http.StatusConflict, service.FieldQuantity, i18n.StockChanged)
	case errors.Is(err, repo.ErrStatusConflict):
		fail(w, r, http.StatusConflict, i18n.TransactionNotPending)
	case errors.Is(err, service.ErrMenuEmpty):
		fail(w, r, http.StatusBadRequest, i18n.MenuEmpty)
	case errors.Is(err, service.ErrQRGenerate):
		internalError(w, r, err, i18n.QRGenerateFailed)
	default:
		internalError(w, r, err, saveKey)
	}
}
