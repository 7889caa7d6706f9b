package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPersistence        = errors.New("failed to persist changes")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("not authorized to access this resource")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrCategoryExists     = errors.New("category with this name or slug already exists")
	ErrCategoryInUse      = errors.New("category is still referenced")
	ErrAlreadyReviewed    = errors.New("you have already reviewed this product")
)

// ValidationError reports caller input that can be corrected and resubmitted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type ProductNotFoundError struct {
	ProductID uint64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

type InsufficientStockError struct {
	ProductID uint64
	Name      string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", name, e.Available, e.Requested)
}

// IsCheckoutRejection reports whether err is one of the user-correctable
// checkout failures rather than an infrastructure failure.
func IsCheckoutRejection(err error) bool {
	var notFound *ProductNotFoundError
	var stock *InsufficientStockError
	var verr *ValidationError
	return errors.Is(err, ErrEmptyCart) ||
		errors.As(err, &notFound) ||
		errors.As(err, &stock) ||
		errors.As(err, &verr)
}
