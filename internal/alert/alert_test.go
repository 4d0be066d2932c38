package alert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRecordsOnlyLowStock(t *testing.T) {
	var buf bytes.Buffer
	rec := NewMemoryRecorder()
	m := NewMonitor(rec, logger.NewWriter(&buf, "info"))
	ctx := context.Background()

	m.Observe(ctx, models.Product{ID: "1", Name: "Kopi", Stock: 5, Threshold: 5})
	m.Observe(ctx, models.Product{ID: "2", Name: "Teh", Stock: 1, Threshold: 3})

	entries, err := m.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ProductID)
	assert.Equal(t, 1, entries[0].Stock)
	assert.Contains(t, buf.String(), `"message":"low stock"`)
}

func TestMemoryRecorderIsCappedAndNewestFirst(t *testing.T) {
	rec := NewMemoryRecorder()
	ctx := context.Background()
	for i := 0; i < maxEntries+5; i++ {
		require.NoError(t, rec.Record(ctx, Entry{ProductID: fmt.Sprint(i)}))
	}

	all, err := rec.Recent(ctx, maxEntries*2)
	require.NoError(t, err)
	assert.Len(t, all, maxEntries)
	assert.Equal(t, fmt.Sprint(maxEntries+4), all[0].ProductID)

	two, err := rec.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, Entry) error { return errors.New("redis down") }
func (failingRecorder) Recent(context.Context, int) ([]Entry, error) {
	return nil, errors.New("redis down")
}

func TestObserveLogsRecorderFailure(t *testing.T) {
	var buf bytes.Buffer
	m := NewMonitor(failingRecorder{}, logger.NewWriter(&buf, "info"))

	m.Observe(context.Background(), models.Product{ID: "1", Stock: 0, Threshold: 1})
	assert.Contains(t, buf.String(), "failed to record low stock alert")
}
