package models

import "time"

// CatalogItem is a sellable item in the master catalog. Reference data: the
// resolver never mutates it, ETL refreshes it out of band.
type CatalogItem struct {
	ItemNo      string    `json:"item_no" db:"item_no"`
	ItemName    string    `json:"item_name" db:"item_name"`
	SupplyPrice *float64  `json:"supply_price,omitempty" db:"supply_price"`
	IsGlass     bool      `json:"is_glass" db:"is_glass"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// EnglishName is the English-name side index entry for a catalog item, joined
// back to the Korean display name during candidate generation.
type EnglishName struct {
	ItemNo      string `json:"item_no" db:"item_no"`
	EnglishName string `json:"english_name" db:"english_name"`
	ItemName    string `json:"item_name" db:"item_name"`
}

// HistoryItem is one distinct item a client has previously purchased.
type HistoryItem struct {
	ItemNo        string     `json:"item_no" db:"item_no"`
	ItemName      string     `json:"item_name" db:"item_name"`
	LastShippedAt *time.Time `json:"last_shipped_at,omitempty" db:"last_shipped_at"`
	ShipCount     int        `json:"ship_count" db:"ship_count"`
}

// Shipment is a single delivery line, the raw material for the history pool
// and the ship-recency signal.
type Shipment struct {
	ID         string    `json:"id" db:"id"`
	ClientCode string    `json:"client_code" db:"client_code"`
	ItemNo     string    `json:"item_no" db:"item_no"`
	ItemName   string    `json:"item_name" db:"item_name"`
	Qty        int       `json:"qty" db:"qty"`
	ShippedAt  time.Time `json:"shipped_at" db:"shipped_at"`
}
