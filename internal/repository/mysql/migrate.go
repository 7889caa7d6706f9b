package mysql

import (
	"storefront-service/internal/domain"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.CartLine{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Review{},
	)
}
