// Package menu builds the public menu snapshot that is served at /menu,
// encoded into QR codes and printed as a PDF sheet.
package menu

import (
	"encoding/json"
	"time"

	"github.com/rogerio-castellano/kasir/internal/models"
)

const (
	DefaultRestaurantName = "Sistem Kasir"
	DefaultContact        = "Hubungi kami untuk pemesanan"
)

type Settings struct {
	RestaurantName string
	Contact        string
}

// Build snapshots products in their listing order. Out-of-stock products stay
// on the menu marked unavailable.
func Build(products []models.Product, s Settings, now time.Time) models.Menu {
	if s.RestaurantName == "" {
		s.RestaurantName = DefaultRestaurantName
	}
	if s.Contact == "" {
		s.Contact = DefaultContact
	}

	items := make([]models.MenuItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.MenuItem{
			Name:      p.Name,
			Price:     json.Number(p.Price.String()),
			Available: p.Available(),
		})
	}

	return models.Menu{
		RestaurantName: s.RestaurantName,
		Items:          items,
		Contact:        s.Contact,
		GeneratedAt:    now.UTC().Format(time.RFC3339),
	}
}

// Marshal renders the snapshot as 2-space indented JSON, the exact QR payload.
func Marshal(m models.Menu) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Unmarshal parses a payload produced by Marshal.
func Unmarshal(data []byte) (models.Menu, error) {
	var m models.Menu
	err := json.Unmarshal(data, &m)
	return m, err
}
