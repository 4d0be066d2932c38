package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/kasir/internal/alert"
	api "github.com/rogerio-castellano/kasir/internal/http"
	"github.com/rogerio-castellano/kasir/internal/service"
)

func TestGetDashboardHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	kopi := mustCreateProduct(r, "Kopi", 15000, 10, 5)
	teh := mustCreateProduct(r, "Teh", 5000, 2, 0)
	createTransaction(r, map[string]any{"product_id": kopi.ID, "quantity": 6})
	createTransaction(r, map[string]any{"product_id": teh.ID, "quantity": 2})
	createTransaction(r, map[string]any{"product_id": teh.ID, "quantity": 10, "type": "purchase", "status": "pending_approval"})

	w := do(r, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var d service.Dashboard
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if d.TotalProducts != 2 || d.TotalTransactions != 3 {
		t.Errorf("expected 2 products and 3 transactions, got %d/%d", d.TotalProducts, d.TotalTransactions)
	}
	if d.SalesRevenue.String() != "100000" {
		t.Errorf("expected revenue 100000, got %v", d.SalesRevenue)
	}
	if d.ItemsSold != 8 || d.PendingApprovals != 1 {
		t.Errorf("expected 8 items sold and 1 pending, got %d/%d", d.ItemsSold, d.PendingApprovals)
	}
	if d.MostSold == nil || d.MostSold.Name != "Kopi" {
		t.Errorf("expected Kopi as most sold, got %+v", d.MostSold)
	}
	if d.LowStockProducts != 1 || d.OutOfStockProducts != 1 {
		t.Errorf("expected 1 low and 1 out of stock, got %d/%d", d.LowStockProducts, d.OutOfStockProducts)
	}
}

func TestGetLowStockAlertsHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	kopi := mustCreateProduct(r, "Kopi", 15000, 10, 5)
	teh := mustCreateProduct(r, "Teh", 5000, 10, 5)
	createTransaction(r, map[string]any{"product_id": kopi.ID, "quantity": 2})
	createTransaction(r, map[string]any{"product_id": kopi.ID, "quantity": 4})
	createTransaction(r, map[string]any{"product_id": teh.ID, "quantity": 6})

	w := do(r, http.MethodGet, "/alerts/low-stock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var entries []alert.Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(entries))
	}
	if entries[0].ProductName != "Teh" || entries[0].Stock != 4 {
		t.Errorf("expected newest alert for Teh at 4, got %+v", entries[0])
	}

	w = do(r, http.MethodGet, "/alerts/low-stock?limit=1", nil)
	json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) != 1 {
		t.Errorf("expected 1 alert with limit, got %d", len(entries))
	}

	if w = do(r, http.MethodGet, "/alerts/low-stock?limit=x", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}
