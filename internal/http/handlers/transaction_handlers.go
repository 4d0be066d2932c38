package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/rogerio-castellano/kasir/internal/service"
)

// CreateTransactionHandler godoc
// @Summary Record a sale or purchase
// @Description Processing transactions move stock immediately; pending_approval ones wait for approval.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Transaction to record"
// @Success 201 {object} TransactionResponse
// @Failure 400 {array} FieldValidationError
// @Failure 409 {array} FieldValidationError "Stock changed concurrently"
// @Failure 500 {string} string "Internal error"
// @Router /transactions [post]
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := transactionService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, i18n.TransactionSaveFailed)
		return
	}
	respond(w, r, http.StatusCreated, toTransactionResponse(created))
}

// GetTransactionByIDHandler godoc
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /transactions/{id} [get]
func GetTransactionByIDHandler(w http.ResponseWriter, r *http.Request) {
	t, err := transactionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, i18n.InternalError)
		return
	}
	respond(w, r, http.StatusOK, toTransactionResponse(t))
}

// ApproveTransactionHandler godoc
// @Summary Approve a pending transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Not pending or not enough stock"
// @Failure 500 {string} string "Internal error"
// @Router /transactions/{id}/approve [post]
func ApproveTransactionHandler(w http.ResponseWriter, r *http.Request) {
	t, err := transactionService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, i18n.TransactionSaveFailed)
		return
	}
	respond(w, r, http.StatusOK, toTransactionResponse(t))
}

// parseTransactionFilter reads the shared list/export query parameters.
func parseTransactionFilter(w http.ResponseWriter, r *http.Request) (repo.TransactionFilter, bool) {
	q := r.URL.Query()
	tf := repo.TransactionFilter{
		ProductID: q.Get("product_id"),
		Type:      models.TransactionType(q.Get("type")),
		Status:    models.TransactionStatus(q.Get("status")),
	}
	if tf.Type != "" && !tf.Type.Valid() {
		fail(w, r, http.StatusBadRequest, i18n.TypeInvalid)
		return tf, false
	}
	if tf.Status != "" && !tf.Status.Valid() {
		fail(w, r, http.StatusBadRequest, i18n.StatusInvalid)
		return tf, false
	}

	var err error
	if tf.Since, err = parseTime(q.Get("since")); err != nil {
		logFor(r, log.Debug()).Err(err).Msg("could not parse since date")
		http.Error(w, "invalid since date format", http.StatusBadRequest)
		return tf, false
	}
	if tf.Until, err = parseTime(q.Get("until")); err != nil {
		logFor(r, log.Debug()).Err(err).Msg("could not parse until date")
		http.Error(w, "invalid until date format", http.StatusBadRequest)
		return tf, false
	}
	return tf, true
}

// GetTransactionsHandler godoc
// @Summary List transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param product_id query string false "Filter by product"
// @Param type query string false "sale or purchase"
// @Param status query string false "processing or pending_approval"
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /transactions [get]
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	tf, ok := parseTransactionFilter(w, r)
	if !ok {
		return
	}
	if tf.Offset, tf.Limit, ok = parsePaging(w, r); !ok {
		return
	}

	transactions, total, err := transactionService.Search(r.Context(), tf)
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}

	resp := TransactionsSearchResult{
		Data: make([]TransactionResponse, len(transactions)),
		Meta: Meta{TotalCount: total},
	}
	for i, t := range transactions {
		resp.Data[i] = toTransactionResponse(t)
	}
	respond(w, r, http.StatusOK, resp)
}

// ExportTransactionsHandler godoc
// @Summary Export transactions
// @Tags transactions
// @Produce text/csv,application/json
// @Security BearerAuth
// @Param format query string true "Export format (csv or json)"
// @Param product_id query string false "Filter by product"
// @Param type query string false "sale or purchase"
// @Param status query string false "processing or pending_approval"
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /transactions/export [get]
func ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	tf, ok := parseTransactionFilter(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := transactionService.Export(r.Context(), &buf, format, tf)
	if errors.Is(err, service.ErrUnsupportedFormat) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}

	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.`+format+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		logFor(r, log.Error()).Err(err).Msg("failed to write export")
	}
}
