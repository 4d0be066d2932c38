package handlers_test_suite

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/kasir/internal/http"
	handler "github.com/rogerio-castellano/kasir/internal/http/handlers"
)

func decodeTransaction(t *testing.T, w interface{ Bytes() []byte }) handler.TransactionResponse {
	t.Helper()
	var tr handler.TransactionResponse
	if err := json.Unmarshal(w.Bytes(), &tr); err != nil {
		t.Fatalf("error decoding transaction: %v", err)
	}
	return tr
}

func TestCreateTransactionHandler_SaleReducesStock(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	p := mustCreateProduct(r, "Kopi", 15000, 10, 2)

	w := createTransaction(r, map[string]any{"product_id": p.ID, "quantity": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	tr := decodeTransaction(t, w.Body)
	if tr.Type != "sale" || tr.Status != "processing" {
		t.Errorf("expected processing sale, got %s/%s", tr.Type, tr.Status)
	}
	if tr.ProductName != "Kopi" || tr.Total.String() != "45000" {
		t.Errorf("unexpected snapshot %s total %v", tr.ProductName, tr.Total)
	}
	if tr.TotalDisplay != "Rp 45.000" {
		t.Errorf("expected total display 'Rp 45.000', got %q", tr.TotalDisplay)
	}

	stored, _ := productRepo.GetByID(t.Context(), p.ID)
	if stored.Stock != 7 {
		t.Errorf("expected stock 7, got %d", stored.Stock)
	}
}

func TestCreateTransactionHandler_PurchaseIncreasesStock(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	p := mustCreateProduct(r, "Gula", 12000, 2, 0)

	w := createTransaction(r, map[string]any{"product_id": p.ID, "quantity": "5", "type": "purchase"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	stored, _ := productRepo.GetByID(t.Context(), p.ID)
	if stored.Stock != 7 {
		t.Errorf("expected stock 7, got %d", stored.Stock)
	}
}

func TestCreateTransactionHandler_Invalid(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	p := mustCreateProduct(r, "Kopi", 15000, 3, 0)

	tests := []struct {
		name           string
		payload        map[string]any
		expectedErrors map[string]string
	}{
		{
			name:    "Nothing selected",
			payload: map[string]any{},
			expectedErrors: map[string]string{
				"product_id": "Product must be selected",
				"quantity":   "Quantity is required",
			},
		},
		{
			name:           "Unknown product",
			payload:        map[string]any{"product_id": "missing", "quantity": 1},
			expectedErrors: map[string]string{"product_id": "Selected product was not found"},
		},
		{
			name:           "Zero quantity",
			payload:        map[string]any{"product_id": p.ID, "quantity": 0},
			expectedErrors: map[string]string{"quantity": "Quantity must be a positive number"},
		},
		{
			name:           "Insufficient stock",
			payload:        map[string]any{"product_id": p.ID, "quantity": 4},
			expectedErrors: map[string]string{"quantity": "Insufficient stock. Available stock: 3"},
		},
		{
			name:           "Quantity beyond 64 bits",
			payload:        map[string]any{"product_id": p.ID, "quantity": "18446744073709551617"},
			expectedErrors: map[string]string{"quantity": "Quantity cannot exceed 2147483647"},
		},
		{
			name:    "Bad type and status",
			payload: map[string]any{"product_id": p.ID, "quantity": 1, "type": "refund", "status": "done"},
			expectedErrors: map[string]string{
				"type":   "Transaction type must be sale or purchase",
				"status": "Transaction status must be processing or pending_approval",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTransaction(r, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}

			got, err := decodeValidationErrors(w.Body)
			if err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if len(got) != len(tt.expectedErrors) {
				t.Errorf("expected %d errors, got %v", len(tt.expectedErrors), got)
			}
			for field, desc := range tt.expectedErrors {
				if got[field] != desc {
					t.Errorf("field %q: expected %q, got %q", field, desc, got[field])
				}
			}
		})
	}

	stored, _ := productRepo.GetByID(t.Context(), p.ID)
	if stored.Stock != 3 {
		t.Errorf("rejected transactions must not move stock, got %d", stored.Stock)
	}
}

func TestApproveTransactionHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	p := mustCreateProduct(r, "Kopi", 15000, 5, 0)

	w := createTransaction(r, map[string]any{"product_id": p.ID, "quantity": 2, "status": "pending_approval"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	pending := decodeTransaction(t, w.Body)

	stored, _ := productRepo.GetByID(t.Context(), p.ID)
	if stored.Stock != 5 {
		t.Fatalf("pending transaction must not move stock, got %d", stored.Stock)
	}

	w = do(r, http.MethodPost, "/transactions/"+pending.ID+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if approved := decodeTransaction(t, w.Body); approved.Status != "processing" {
		t.Errorf("expected processing, got %s", approved.Status)
	}

	stored, _ = productRepo.GetByID(t.Context(), p.ID)
	if stored.Stock != 3 {
		t.Errorf("expected stock 3 after approval, got %d", stored.Stock)
	}

	w = do(r, http.MethodPost, "/transactions/"+pending.ID+"/approve", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on second approval, got %d", w.Code)
	}

	w = do(r, http.MethodPost, "/transactions/missing/approve", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown transaction, got %d", w.Code)
	}
}

func TestGetTransactionHandlers(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	kopi := mustCreateProduct(r, "Kopi", 15000, 10, 0)
	teh := mustCreateProduct(r, "Teh", 5000, 10, 0)
	createTransaction(r, map[string]any{"product_id": kopi.ID, "quantity": 1})
	createTransaction(r, map[string]any{"product_id": teh.ID, "quantity": 2})
	last := decodeTransaction(t, createTransaction(r, map[string]any{"product_id": kopi.ID, "quantity": 3, "type": "purchase"}).Body)

	w := do(r, http.MethodGet, "/transactions/"+last.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if w = do(r, http.MethodGet, "/transactions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal int
	}{
		{"all", "", http.StatusOK, 3},
		{"by product", "?product_id=" + kopi.ID, http.StatusOK, 2},
		{"by type", "?type=sale", http.StatusOK, 2},
		{"by status", "?status=pending_approval", http.StatusOK, 0},
		{"since far future", "?since=2999-01-01T00:00:00Z", http.StatusOK, 0},
		{"paginated", "?limit=1", http.StatusOK, 3},
		{"bad type", "?type=refund", http.StatusBadRequest, 0},
		{"bad since", "?since=yesterday", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/transactions"+tt.query, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp handler.TransactionsSearchResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.Meta.TotalCount != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, resp.Meta.TotalCount)
			}
		})
	}

	w = do(r, http.MethodGet, "/transactions", nil)
	var all handler.TransactionsSearchResult
	json.NewDecoder(w.Body).Decode(&all)
	if len(all.Data) == 0 || all.Data[0].ID != last.ID {
		t.Error("expected newest transaction first")
	}
}

func TestExportTransactionsHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	p := mustCreateProduct(r, "Kopi", 15000, 10, 0)
	createTransaction(r, map[string]any{"product_id": p.ID, "quantity": 2})

	w := do(r, http.MethodGet, "/transactions/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions.csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}
	if records[1][2] != "Kopi" || records[1][7] != "30000" {
		t.Errorf("unexpected row %v", records[1])
	}

	w = do(r, http.MethodGet, "/transactions/export?format=json", nil)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	if w = do(r, http.MethodGet, "/transactions/export?format=xml", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported format, got %d", w.Code)
	}
}
