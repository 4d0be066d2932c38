package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/rogerio-castellano/kasir/internal/alert"
	"github.com/rogerio-castellano/kasir/internal/events"
	api "github.com/rogerio-castellano/kasir/internal/http"
	handler "github.com/rogerio-castellano/kasir/internal/http/handlers"
	"github.com/rogerio-castellano/kasir/internal/http/middleware"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/menu"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/rogerio-castellano/kasir/internal/service"
)

const menuURL = "http://kasir.test/menu"

var (
	token       string
	adminToken  string
	productRepo *repo.InMemoryProductRepository
)

func init() {
	middleware.SetRateLimit(1000, 1000)
	resetState()
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "kasir", "secret1")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	adminToken, err = generateToken(r, "admin", "secret1")
	if err != nil {
		panic(fmt.Sprintf("error generating admin token: %v", err))
	}
}

// resetState wires fresh in-memory backends into the handlers.
func resetState() {
	log := logger.Nop()
	productRepo = repo.NewInMemoryProductRepository()
	transactionRepo := repo.NewInMemoryTransactionRepository()
	userRepo := repo.NewInMemoryUserRepository()
	monitor := alert.NewMonitor(alert.NewMemoryRecorder(), log)
	emitter := events.NewEmitter(events.NewLogPublisher(log), log)

	authService := service.NewAuthService(userRepo)
	ctx := context.Background()
	if _, err := authService.CreateUser(ctx, "kasir", "secret1", models.RoleUser); err != nil {
		panic(err)
	}
	if _, err := authService.CreateUser(ctx, "admin", "secret1", models.RoleAdmin); err != nil {
		panic(err)
	}

	handler.SetLogger(log)
	handler.SetProductService(service.NewProductService(productRepo, emitter))
	handler.SetTransactionService(service.NewTransactionService(productRepo, transactionRepo, monitor, emitter, log))
	handler.SetDashboardService(service.NewDashboardService(productRepo, transactionRepo))
	handler.SetAuthService(authService)
	handler.SetAlertMonitor(monitor)
	handler.SetQRService(service.NewQRService(
		productRepo,
		menu.Settings{RestaurantName: "Warung Tes", Contact: "0812"},
		menuURL,
		qrcode.DefaultOptions(),
		nil,
		log,
	))
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// do sends an authenticated request asking for English messages.
func do(r http.Handler, method, path string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", "en")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return do(r, method, path, bytes.NewReader(body))
}

func createProduct(r http.Handler, p map[string]any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/products", p)
}

func mustCreateProduct(r http.Handler, name string, price, stock, threshold any) handler.ProductResponse {
	w := createProduct(r, map[string]any{"name": name, "price": price, "stock": stock, "threshold": threshold})
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("create product %s: %d %s", name, w.Code, w.Body.String()))
	}
	var p handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		panic(err)
	}
	return p
}

func createTransaction(r http.Handler, t map[string]any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/transactions", t)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func decodeValidationErrors(body io.Reader) (map[string]string, error) {
	var resp []handler.FieldValidationError
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, e := range resp {
		out[e.Field] = e.Description
	}
	return out, nil
}
