package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

type Address struct {
	FullName   string `json:"full_name,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

type Order struct {
	ID              uint64                      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint64                      `json:"user_id" gorm:"not null;index"`
	OrderNumber     string                      `json:"order_number" gorm:"type:varchar(64);not null;uniqueIndex"`
	TotalAmount     decimal.Decimal             `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	ShippingAddress datatypes.JSONType[Address] `json:"shipping_address"`
	PaymentMethod   PaymentMethod               `json:"payment_method" gorm:"type:varchar(32);not null"`
	Status          OrderStatus                 `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt       time.Time                   `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
	Items           []OrderItem                 `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a price snapshot taken when the order was placed; it never
// follows later catalog changes.
type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"order_id" gorm:"not null;index"`
	ProductID   uint64          `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
}

type OrderStats struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	ProcessingOrders int64           `json:"processing_orders"`
	ShippedOrders    int64           `json:"shipped_orders"`
	DeliveredOrders  int64           `json:"delivered_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}
