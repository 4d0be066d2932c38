package handlers

import (
	"github.com/rogerio-castellano/kasir/internal/alert"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/service"
)

var (
	productService     *service.ProductService
	transactionService *service.TransactionService
	dashboardService   *service.DashboardService
	qrService          *service.QRService
	authService        *service.AuthService
	alertMonitor       *alert.Monitor

	log = logger.Nop()
)

func SetProductService(s *service.ProductService) {
	productService = s
}

func SetTransactionService(s *service.TransactionService) {
	transactionService = s
}

func SetDashboardService(s *service.DashboardService) {
	dashboardService = s
}

func SetQRService(s *service.QRService) {
	qrService = s
}

func SetAuthService(s *service.AuthService) {
	authService = s
}

func SetAlertMonitor(m *alert.Monitor) {
	alertMonitor = m
}

func SetLogger(l *logger.Logger) {
	log = l
}
