package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one customer's rating of a product. A user reviews a product at
// most once.
type Review struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `json:"product_id" gorm:"not null;uniqueIndex:idx_reviews_product_user;index"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// Filled from the users table on read.
	FirstName string `json:"first_name,omitempty" gorm:"->;-:migration"`
	LastName  string `json:"last_name,omitempty" gorm:"->;-:migration"`
}

type RatingSummary struct {
	AvgRating   decimal.Decimal `json:"avg_rating"`
	ReviewCount int64           `json:"review_count"`
}

// ProductDetail is the public product page: the product plus its rating
// summary, reviews newest first, and a few products from the same category.
type ProductDetail struct {
	*Product
	RatingSummary
	Reviews         []Review  `json:"reviews"`
	RelatedProducts []Product `json:"related_products"`
}
