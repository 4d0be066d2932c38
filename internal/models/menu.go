package models

import "encoding/json"

// Menu is the public snapshot of the catalogue that gets encoded into QR codes.
type Menu struct {
	RestaurantName string     `json:"restaurantName"`
	Items          []MenuItem `json:"menu"`
	Contact        string     `json:"contact"`
	GeneratedAt    string     `json:"generatedAt"`
}

type MenuItem struct {
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Available bool        `json:"available"`
}
