package handlers

import (
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/kasir/internal/i18n"
)

// GetDashboardHandler godoc
// @Summary Sales and stock summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 500 {string} string "Internal error"
// @Router /dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := dashboardService.Summary(r.Context())
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}
	respond(w, r, http.StatusOK, d)
}

// GetLowStockAlertsHandler godoc
// @Summary Recent low-stock alerts, newest first
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default and cap 200)"
// @Success 200 {array} alert.Entry
// @Failure 400 {string} string "Invalid limit"
// @Failure 500 {string} string "Internal error"
// @Router /alerts/low-stock [get]
func GetLowStockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
			return
		}
		limit = v
	}

	entries, err := alertMonitor.Recent(r.Context(), limit)
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}
	respond(w, r, http.StatusOK, entries)
}
