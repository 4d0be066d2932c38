package menu

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Nasi Goreng", Price: decimal.NewFromInt(25000), Stock: 4},
		{ID: "2", Name: "Es Jeruk", Price: decimal.RequireFromString("7500.50"), Stock: 0},
	}
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	m := Build(sampleProducts(), Settings{}, now)

	assert.Equal(t, DefaultRestaurantName, m.RestaurantName)
	assert.Equal(t, DefaultContact, m.Contact)
	assert.Equal(t, "2026-03-01T02:30:00Z", m.GeneratedAt)
	require.Len(t, m.Items, 2)
	assert.Equal(t, models.MenuItem{Name: "Nasi Goreng", Price: "25000", Available: true}, m.Items[0])
	assert.Equal(t, models.MenuItem{Name: "Es Jeruk", Price: "7500.5", Available: false}, m.Items[1])
}

func TestMarshalIsIndentedWithNumericPrices(t *testing.T) {
	m := Build(sampleProducts()[:1], Settings{RestaurantName: "Warung Bu Sri", Contact: "0812"}, time.Unix(0, 0))

	data, err := Marshal(m)
	require.NoError(t, err)

	want := `{
  "restaurantName": "Warung Bu Sri",
  "menu": [
    {
      "name": "Nasi Goreng",
      "price": 25000,
      "available": true
    }
  ],
  "contact": "0812",
  "generatedAt": "1970-01-01T00:00:00Z"
}`
	assert.Equal(t, want, string(data))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
}

func TestPDFRendersDocument(t *testing.T) {
	m := Build(sampleProducts(), Settings{}, time.Now())

	out, err := PDF(t.Context(), m, "http://localhost:8080/menu")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
