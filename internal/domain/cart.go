package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint64    `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// CartItem is a cart line joined with the current state of its product.
type CartItem struct {
	ID              uint64          `json:"id"`
	ProductID       uint64          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	StockQuantity   int64           `json:"stock_quantity"`
}

type Cart struct {
	Items   []CartItem    `json:"cartItems"`
	Summary CostBreakdown `json:"summary"`
}
