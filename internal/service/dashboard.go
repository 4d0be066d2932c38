package service

import (
	"context"

	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/shopspring/decimal"
)

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Dashboard struct {
	TotalProducts      int              `json:"total_products"`
	TotalTransactions  int              `json:"total_transactions"`
	LowStockProducts   int              `json:"low_stock_products"`
	OutOfStockProducts int              `json:"out_of_stock_products"`
	PendingApprovals   int              `json:"pending_approvals"`
	ItemsSold          int              `json:"items_sold"`
	SalesRevenue       decimal.Decimal  `json:"sales_revenue"`
	PurchaseSpend      decimal.Decimal  `json:"purchase_spend"`
	MostSold           *TopProduct      `json:"most_sold,omitempty"`
	LowStock           []models.Product `json:"low_stock"`
}

type DashboardService struct {
	products     repo.ProductRepository
	transactions repo.TransactionRepository
}

func NewDashboardService(products repo.ProductRepository, transactions repo.TransactionRepository) *DashboardService {
	return &DashboardService{products: products, transactions: transactions}
}

// Summary aggregates the catalogue and the transaction log. Money totals only
// count processing transactions.
func (s *DashboardService) Summary(ctx context.Context) (Dashboard, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	transactions, total, err := s.transactions.Filter(ctx, repo.TransactionFilter{})
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		TotalProducts:     len(products),
		TotalTransactions: total,
		SalesRevenue:      decimal.Zero,
		PurchaseSpend:     decimal.Zero,
		LowStock:          []models.Product{},
	}

	for _, p := range products {
		if p.LowStock() {
			d.LowStockProducts++
			d.LowStock = append(d.LowStock, p)
		}
		if !p.Available() {
			d.OutOfStockProducts++
		}
	}

	sold := map[string]*TopProduct{}
	for _, t := range transactions {
		if t.Status == models.StatusPendingApproval {
			d.PendingApprovals++
			continue
		}
		switch t.Type {
		case models.TransactionSale:
			d.SalesRevenue = d.SalesRevenue.Add(t.Total)
			d.ItemsSold += t.Quantity
			tp, ok := sold[t.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: t.ProductID, Name: t.ProductName}
				sold[t.ProductID] = tp
			}
			tp.Quantity += t.Quantity
		case models.TransactionPurchase:
			d.PurchaseSpend = d.PurchaseSpend.Add(t.Total)
		}
	}

	for _, tp := range sold {
		if d.MostSold == nil || tp.Quantity > d.MostSold.Quantity ||
			(tp.Quantity == d.MostSold.Quantity && tp.Name < d.MostSold.Name) {
			d.MostSold = tp
		}
	}
	return d, nil
}
