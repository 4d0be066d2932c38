package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/service"
)

const maxImportSize = 10 << 20

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, price, stock and optional threshold. Invalid rows are reported and skipped.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Param encoding query string false "File encoding (utf-8|latin1)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := service.ParseImportMode(r.URL.Query().Get("mode"))

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := productService.Import(r.Context(), service.DecodeCSV(file, r.URL.Query().Get("encoding")), mode)
	if errors.Is(err, service.ErrInvalidCSV) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, err, i18n.ProductSaveFailed)
		return
	}

	tag := lang(r)
	resp := ImportProductsResult{
		ImportedProductsCount: result.Imported(),
		Created:               result.Created,
		Updated:               result.Updated,
		Errors:                make([]ImportRowError, len(result.Errors)),
	}
	for i, e := range result.Errors {
		resp.Errors[i] = ImportRowError{
			Row:         e.Row,
			Field:       e.Field,
			Description: i18n.T(tag, e.Message, e.Args...),
		}
	}

	logFor(r, log.Info()).
		Str("mode", string(mode)).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("rejected", len(result.Errors)).
		Msg("products imported")
	respond(w, r, http.StatusOK, resp)
}
