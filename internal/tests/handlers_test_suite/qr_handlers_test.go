package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/kasir/internal/http"
	handler "github.com/rogerio-castellano/kasir/internal/http/handlers"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/rogerio-castellano/kasir/internal/service"
)

func TestGetQRDefaultsHandler(t *testing.T) {
	r := api.NewRouter()

	w := do(r, http.MethodGet, "/qr/defaults", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var d service.QRDefaults
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if d.URL != menuURL || d.Size != qrcode.DefaultSize {
		t.Errorf("unexpected defaults %+v", d)
	}
}

func TestGenerateURLQRHandler(t *testing.T) {
	r := api.NewRouter()

	t.Run("Blank URL", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/qr/url", handler.QRRequest{URL: "   "})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		got, err := decodeValidationErrors(w.Body)
		if err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if got["url"] != "URL must not be empty" {
			t.Errorf("unexpected message %q", got["url"])
		}
	})

	t.Run("JSON response", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/qr/url", handler.QRRequest{URL: "https://kasir.test/promo", Size: 128})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp handler.QRResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("error decoding response: %v", err)
		}
		if resp.Payload != "https://kasir.test/promo" {
			t.Errorf("unexpected payload %q", resp.Payload)
		}
		if !strings.HasPrefix(resp.Image, "data:image/png;base64,") {
			t.Errorf("expected PNG data URI, got %.30q", resp.Image)
		}
	})

	t.Run("PNG download", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/qr/url?format=png", handler.QRRequest{URL: "https://kasir.test", Size: 200})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "qr-code-menu.png") {
			t.Errorf("unexpected Content-Disposition %q", cd)
		}

		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		if err != nil {
			t.Fatalf("invalid png: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
			t.Errorf("expected 200x200, got %v", b)
		}
	})

	t.Run("Invalid rendering options", func(t *testing.T) {
		tests := []struct {
			name           string
			payload        handler.QRRequest
			expectedErrors map[string]string
		}{
			{
				name:           "Oversized image",
				payload:        handler.QRRequest{URL: "https://kasir.test", Size: 100000},
				expectedErrors: map[string]string{"size": "Size must be between 1 and 2048 pixels"},
			},
			{
				name:    "Bad colours",
				payload: handler.QRRequest{URL: "https://kasir.test", Dark: "black", Light: "#12"},
				expectedErrors: map[string]string{
					"dark":  "Colour must be a hex code such as #000000",
					"light": "Colour must be a hex code such as #000000",
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(r, http.MethodPost, "/qr/url", tt.payload)
				if w.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
				}
				got, err := decodeValidationErrors(w.Body)
				if err != nil {
					t.Fatalf("error decoding response: %v", err)
				}
				for field, desc := range tt.expectedErrors {
					if got[field] != desc {
						t.Errorf("field %q: expected %q, got %q", field, desc, got[field])
					}
				}
			})
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/qr/url", strings.NewReader("{"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestGenerateMenuQRHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	w := do(r, http.MethodPost, "/qr/menu", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty menu, got %d", w.Code)
	}
	if msg := strings.TrimSpace(w.Body.String()); msg != "No products to show in the menu" {
		t.Errorf("unexpected message %q", msg)
	}

	mustCreateProduct(r, "Kopi", 15000, 3, 0)
	mustCreateProduct(r, "Teh", 5000, 0, 0)

	w = do(r, http.MethodPost, "/qr/menu", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.QRResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Menu == nil {
		t.Fatal("expected the encoded menu in the response")
	}
	if resp.Menu.RestaurantName != "Warung Tes" || len(resp.Menu.Items) != 2 {
		t.Errorf("unexpected menu %+v", resp.Menu)
	}

	var fromPayload models.Menu
	if err := json.Unmarshal([]byte(resp.Payload), &fromPayload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	for _, item := range fromPayload.Items {
		if item.Name == "Teh" && item.Available {
			t.Error("product without stock must be unavailable")
		}
	}
}

func TestGetMenuPDFHandler(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	if w := do(r, http.MethodGet, "/qr/menu.pdf", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty menu, got %d", w.Code)
	}

	mustCreateProduct(r, "Kopi", 15000, 3, 0)

	w := do(r, http.MethodGet, "/qr/menu.pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestPublicEndpoints(t *testing.T) {
	t.Cleanup(resetState)
	r := api.NewRouter()

	mustCreateProduct(r, "Kopi", 15000, 3, 0)

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public menu, got %d", w.Code)
	}
	var m models.Menu
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("error decoding menu: %v", err)
	}
	if len(m.Items) != 1 || m.Items[0].Name != "Kopi" {
		t.Errorf("unexpected menu items %+v", m.Items)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for health, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
}
