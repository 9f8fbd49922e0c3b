// Package model defines the persistent records shared by the
// inventory, sales, and delivery stores.
package model

import "time"

// Book is a catalog record. StockQuantity never goes below zero;
// adjustments that would drive it negative are rejected by the
// inventory service.
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Available reports whether qty copies are in stock.
func (b *Book) Available(qty int) bool {
	return b.StockQuantity >= qty
}
