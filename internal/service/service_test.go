package service

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/kasir/internal/alert"
	"github.com/rogerio-castellano/kasir/internal/events"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	products     *repo.InMemoryProductRepository
	transactions *repo.InMemoryTransactionRepository
	alerts       *alert.MemoryRecorder
	published    *recordingPublisher

	productSvc     *ProductService
	transactionSvc *TransactionService
	dashboardSvc   *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		products:     repo.NewInMemoryProductRepository(),
		transactions: repo.NewInMemoryTransactionRepository(),
		alerts:       alert.NewMemoryRecorder(),
		published:    &recordingPublisher{},
	}
	log := logger.Nop()
	emitter := events.NewEmitter(f.published, log)

	f.productSvc = NewProductService(f.products, emitter)
	f.transactionSvc = NewTransactionService(f.products, f.transactions, alert.NewMonitor(f.alerts, log), emitter, log)
	f.dashboardSvc = NewDashboardService(f.products, f.transactions)
	return f
}

func (f *fixture) addProduct(t *testing.T, name, price, stock, threshold string) models.Product {
	t.Helper()
	p, err := f.productSvc.Create(context.Background(), ProductInput{
		Name:      name,
		Price:     FieldValue(price),
		Stock:     FieldValue(stock),
		Threshold: FieldValue(threshold),
	})
	require.NoError(t, err)
	return p
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T: %v", err, err)

	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}
