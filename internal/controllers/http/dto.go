package http

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

type AddToCartRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  *int64 `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	ShippingAddress domain.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method" binding:"required"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProductRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description" binding:"required"`
	Price           decimal.Decimal  `json:"price"`
	CategoryID      *uint64          `json:"category_id"`
	Brand           string           `json:"brand"`
	StockQuantity   int64            `json:"stock_quantity"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	IsFeatured      bool             `json:"is_featured"`
}

func (r ProductRequest) input() services.ProductInput {
	discount := decimal.Zero
	if r.DiscountPercent != nil {
		discount = *r.DiscountPercent
	}
	return services.ProductInput{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		CategoryID:      r.CategoryID,
		Brand:           r.Brand,
		StockQuantity:   r.StockQuantity,
		DiscountPercent: discount,
		IsFeatured:      r.IsFeatured,
	}
}

type ProductPatchRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	CategoryID      *uint64          `json:"category_id"`
	Brand           *string          `json:"brand"`
	StockQuantity   *int64           `json:"stock_quantity"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	IsFeatured      *bool            `json:"is_featured"`
	IsActive        *bool            `json:"is_active"`
}

func (r ProductPatchRequest) patch() services.ProductPatch {
	return services.ProductPatch(r)
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ParentID    *uint64 `json:"parent_id"`
}

// CategoryPatchRequest uses parent_id 0 to move a category to the root.
type CategoryPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	ParentID    *uint64 `json:"parent_id"`
}

func (r CategoryPatchRequest) patch() services.CategoryPatch {
	p := services.CategoryPatch{Name: r.Name, Description: r.Description, ImageURL: r.ImageURL}
	switch {
	case r.ParentID == nil:
	case *r.ParentID == 0:
		p.ClearParent = true
	default:
		p.ParentID = r.ParentID
	}
	return p
}

type UpdateUserRequest struct {
	Role       *domain.Role `json:"role"`
	IsBlocked  *bool        `json:"is_blocked"`
	IsVerified *bool        `json:"is_verified"`
}

type ProductListResponse struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

type OrderListResponse struct {
	Orders     []domain.Order    `json:"orders"`
	Pagination domain.Pagination `json:"pagination"`
}

type UserListResponse struct {
	Users      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

type CartItemResponse struct {
	CartItem *domain.CartLine `json:"cartItem"`
	Message  string           `json:"message"`
}
