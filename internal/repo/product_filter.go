package repo

import (
	"strings"

	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/shopspring/decimal"
)

type ProductFilter struct {
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
	Offset   *int
	Limit    *int
}

func matchesProductFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.MinPrice != nil && p.Price.LessThan(*pf.MinPrice) {
		return false
	}
	if pf.MaxPrice != nil && p.Price.GreaterThan(*pf.MaxPrice) {
		return false
	}
	if pf.MinStock != nil && p.Stock < *pf.MinStock {
		return false
	}
	if pf.MaxStock != nil && p.Stock > *pf.MaxStock {
		return false
	}
	return true
}

func filterProducts(products []models.Product, pf ProductFilter) ([]models.Product, int) {
	filtered := []models.Product{}
	for _, p := range products {
		if matchesProductFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}
	return paginate(filtered, pf.Offset, pf.Limit), len(filtered)
}
