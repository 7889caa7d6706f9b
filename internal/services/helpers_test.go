package services

import (
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TestUserID      = uint64(7)
	TestProductID   = uint64(1)
	TestOrderID     = uint64(1)
	TestProductName = "Test Product"
)

var testAddress = domain.Address{
	FullName:   "Jane Doe",
	Street:     "1 Main St",
	City:       "Springfield",
	PostalCode: "12345",
	Country:    "US",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}

func CreateMockOrder(id, userID uint64, total string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		UserID:          userID,
		OrderNumber:     "ORD-20250101-TEST",
		TotalAmount:     dec(total),
		ShippingAddress: datatypes.NewJSONType(testAddress),
		PaymentMethod:   domain.PaymentCreditCard,
		Status:          status,
		CreatedAt:       time.Now(),
	}
}

func CreateMockProduct(id uint64, name, price string, stock int64) *domain.Product {
	return &domain.Product{
		ID:              id,
		Name:            name,
		Description:     name + " description",
		Price:           dec(price),
		DiscountPercent: decimal.Zero,
		StockQuantity:   stock,
		IsActive:        true,
	}
}
