package models

import "time"

// DefaultUnit is applied when the export carries no unit token for a quantity.
const DefaultUnit = "Nos"

// StockItem is one row of a parsed Stock Summary export. It only lives for the
// duration of a single sync pass.
type StockItem struct {
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Rate        float64   `json:"rate"`
	Amount      float64   `json:"amount"`
	LastUpdated time.Time `json:"lastUpdated"`
}
