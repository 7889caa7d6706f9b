package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CategoryID      *uint64         `json:"category_id" gorm:"index"`
	Category        *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Brand           string          `json:"brand,omitempty" gorm:"type:varchar(120);index"`
	StockQuantity   int64           `json:"stock_quantity" gorm:"not null;default:0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:decimal(5,2);not null;default:0"`
	IsFeatured      bool            `json:"is_featured" gorm:"index"`
	IsActive        bool            `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *Product) UnitPrice() decimal.Decimal {
	return DiscountedUnitPrice(p.Price, p.DiscountPercent)
}

// ProductFilter drives catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Brand           string
	Search          string
	SortBy          string
	Desc            bool
	Page            Page
	IncludeInactive bool
}
