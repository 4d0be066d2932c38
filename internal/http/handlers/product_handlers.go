package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/shopspring/decimal"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalogue. Price, stock and threshold accept numbers or numeric strings.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} FieldValidationError
// @Failure 409 {array} FieldValidationError "Name already used"
// @Failure 500 {string} string "Internal error"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := productService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, i18n.ProductSaveFailed)
		return
	}
	respond(w, r, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productService.List(r.Context())
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	respond(w, r, http.StatusOK, response)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, i18n.InternalError)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} FieldValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {array} FieldValidationError "Name already used"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	updated, err := productService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err, i18n.ProductSaveFailed)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := productService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, i18n.InternalError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDecimalPtr(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains (case-insensitive)"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minStock query int false "Minimum stock"
// @Param maxStock query int false "Maximum stock"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /products/search [get]
func FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repo.ProductFilter{Name: q.Get("name")}

	var err error
	if filter.MinPrice, err = parseDecimalPtr(q.Get("minPrice")); err != nil {
		http.Error(w, "invalid minPrice", http.StatusBadRequest)
		return
	}
	if filter.MaxPrice, err = parseDecimalPtr(q.Get("maxPrice")); err != nil {
		http.Error(w, "invalid maxPrice", http.StatusBadRequest)
		return
	}
	if filter.MinStock, err = parseIntPtr(q.Get("minStock")); err != nil {
		http.Error(w, "invalid minStock", http.StatusBadRequest)
		return
	}
	if filter.MaxStock, err = parseIntPtr(q.Get("maxStock")); err != nil {
		http.Error(w, "invalid maxStock", http.StatusBadRequest)
		return
	}

	var ok bool
	if filter.Offset, filter.Limit, ok = parsePaging(w, r); !ok {
		return
	}

	products, total, err := productService.Search(r.Context(), filter)
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}

	resp := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: total},
	}
	for i, p := range products {
		resp.Data[i] = toProductResponse(p)
	}
	respond(w, r, http.StatusOK, resp)
}
