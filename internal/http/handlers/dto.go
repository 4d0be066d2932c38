package handlers

import (
	"time"

	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/service"
	"github.com/shopspring/decimal"
)

// ProductRequest is the product form. Numeric fields accept numbers or strings.
type ProductRequest = service.ProductInput

// TransactionRequest is the transaction form.
type TransactionRequest = service.TransactionInput

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price" swaggertype:"number"`
	PriceDisplay string          `json:"price_display"`
	Stock        int             `json:"stock"`
	Threshold    int             `json:"threshold"`
	LowStock     bool            `json:"low_stock,omitempty"`
	Available    bool            `json:"available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: i18n.FormatIDR(p.Price),
		Stock:        p.Stock,
		Threshold:    p.Threshold,
		LowStock:     p.LowStock(),
		Available:    p.Available(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type TransactionResponse struct {
	models.Transaction
	TotalDisplay string `json:"total_display"`
}

func toTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{Transaction: t, TotalDisplay: i18n.FormatIDR(t.Total)}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type TransactionsSearchResult struct {
	Data []TransactionResponse `json:"data"`
	Meta Meta                  `json:"meta,omitempty"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role" enums:"admin,user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ImportRowError struct {
	Row         int    `json:"row"`
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ImportProductsResult struct {
	ImportedProductsCount int              `json:"imported"`
	Created               int              `json:"created"`
	Updated               int              `json:"updated"`
	Errors                []ImportRowError `json:"errors"`
}

// QRRequest customises rendering. Zero values use the configured defaults;
// an explicit margin of 0 removes the quiet zone.
type QRRequest struct {
	URL     string `json:"url,omitempty"`
	Size    int    `json:"size,omitempty" maximum:"2048"`
	Margin  *int   `json:"margin,omitempty"`
	Dark    string `json:"dark,omitempty"`
	Light   string `json:"light,omitempty"`
	Archive bool   `json:"archive,omitempty"`
}

type QRResponse struct {
	Image      string       `json:"image"` // data URI
	Payload    string       `json:"payload"`
	Menu       *models.Menu `json:"menu,omitempty"`
	ArchiveURL string       `json:"archive_url,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
