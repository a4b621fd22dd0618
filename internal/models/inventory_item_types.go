package models

import "time"

// Stock status labels derived from quantity. Never persisted: the value
// is recomputed on every read so it cannot drift from quantity.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"

	// LowStockThreshold is the largest quantity still reported as low.
	LowStockThreshold = 10
)

// InventoryItem is the model for the 'inventory_items' table.
type InventoryItem struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Status      string    `json:"status" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// StockStatus derives the display status for a quantity.
func StockStatus(quantity int) string {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// DeriveStatus fills the Status field from the current quantity.
func (i *InventoryItem) DeriveStatus() {
	i.Status = StockStatus(i.Quantity)
}
