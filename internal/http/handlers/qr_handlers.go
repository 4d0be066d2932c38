package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/menu"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/rogerio-castellano/kasir/internal/service"
)

func (req QRRequest) options() qrcode.Options {
	o := qrcode.Options{Size: req.Size, Dark: req.Dark, Light: req.Light}
	if req.Margin != nil {
		o.Margin = *req.Margin
		if o.Margin == 0 {
			o.Margin = -1
		}
	}
	return o
}

// readQRRequest accepts an empty body as "all defaults".
func readQRRequest(w http.ResponseWriter, r *http.Request) (QRRequest, bool) {
	var req QRRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// writeQR answers with JSON, or with the raw PNG as a download for ?format=png.
func writeQR(w http.ResponseWriter, r *http.Request, res service.QRResult, m *models.Menu) {
	if r.URL.Query().Get("format") == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="`+service.DownloadName+`"`)
		if res.ArchiveURL != "" {
			w.Header().Set("X-Archive-Url", res.ArchiveURL)
		}
		if _, err := w.Write(res.PNG); err != nil {
			logFor(r, log.Error()).Err(err).Msg("failed to write QR image")
		}
		return
	}

	respond(w, r, http.StatusOK, QRResponse{
		Image:      qrcode.DataURI(res.PNG),
		Payload:    res.Payload,
		Menu:       m,
		ArchiveURL: res.ArchiveURL,
	})
}

// GetQRDefaultsHandler godoc
// @Summary Default QR settings and target URL
// @Tags qr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.QRDefaults
// @Router /qr/defaults [get]
func GetQRDefaultsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, qrService.Defaults())
}

// GenerateURLQRHandler godoc
// @Summary Encode a URL as a QR code
// @Tags qr
// @Accept json
// @Produce json,image/png
// @Security BearerAuth
// @Param request body QRRequest true "URL and rendering options"
// @Param format query string false "png to download the image"
// @Success 200 {object} QRResponse
// @Failure 400 {array} FieldValidationError
// @Failure 500 {string} string "Failed to generate QR code"
// @Router /qr/url [post]
func GenerateURLQRHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := readQRRequest(w, r)
	if !ok {
		return
	}

	res, err := qrService.URL(r.Context(), req.URL, req.options(), req.Archive)
	if err != nil {
		writeServiceError(w, r, err, i18n.QRGenerateFailed)
		return
	}
	writeQR(w, r, res, nil)
}

// GenerateMenuQRHandler godoc
// @Summary Encode the current menu as a QR code
// @Description The payload is the menu snapshot as indented JSON.
// @Tags qr
// @Accept json
// @Produce json,image/png
// @Security BearerAuth
// @Param request body QRRequest false "Rendering options"
// @Param format query string false "png to download the image"
// @Success 200 {object} QRResponse
// @Failure 400 {string} string "No products"
// @Failure 500 {string} string "Failed to generate QR code"
// @Router /qr/menu [post]
func GenerateMenuQRHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := readQRRequest(w, r)
	if !ok {
		return
	}

	res, err := qrService.Menu(r.Context(), req.options(), req.Archive)
	if err != nil {
		writeServiceError(w, r, err, i18n.QRGenerateFailed)
		return
	}

	var m *models.Menu
	if snapshot, err := menu.Unmarshal([]byte(res.Payload)); err == nil {
		m = &snapshot
	}
	writeQR(w, r, res, m)
}

// GetMenuPDFHandler godoc
// @Summary Printable A4 menu with a QR code to the public menu
// @Tags qr
// @Produce application/pdf
// @Security BearerAuth
// @Param archive query bool false "Also upload to object storage"
// @Success 200 {file} file
// @Failure 400 {string} string "No products"
// @Failure 500 {string} string "Internal error"
// @Router /qr/menu.pdf [get]
func GetMenuPDFHandler(w http.ResponseWriter, r *http.Request) {
	archive := r.URL.Query().Get("archive") == "true"
	pdf, archiveURL, err := qrService.MenuPDF(r.Context(), archive)
	if err != nil {
		writeServiceError(w, r, err, i18n.InternalError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.MenuPDFName+`"`)
	if archiveURL != "" {
		w.Header().Set("X-Archive-Url", archiveURL)
	}
	if _, err := w.Write(pdf); err != nil {
		logFor(r, log.Error()).Err(err).Msg("failed to write menu pdf")
	}
}

// GetMenuHandler godoc
// @Summary Public menu snapshot
// @Description The default QR target. Out-of-stock products are listed as unavailable.
// @Tags public
// @Produce json
// @Success 200 {object} models.Menu
// @Failure 500 {string} string "Internal error"
// @Router /menu [get]
func GetMenuHandler(w http.ResponseWriter, r *http.Request) {
	m, err := qrService.Snapshot(r.Context())
	if err != nil {
		internalError(w, r, err, i18n.InternalError)
		return
	}
	respond(w, r, http.StatusOK, m)
}

// HealthHandler godoc
// @Summary Liveness check
// @Tags public
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
