package repository

import (
	"context"
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
)

// ErrStockConflict is returned by DecrementStock when the row no longer has
// enough stock to cover the requested quantity.
var ErrStockConflict = errors.New("stock changed concurrently")

// TxRunner runs fn inside a single datastore transaction. A non-nil error
// from fn rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type UserRepository interface {
	Create(dbc dbctx.Context, user *domain.User) error
	FindByID(dbc dbctx.Context, id uint64) (*domain.User, error)
	FindByEmail(dbc dbctx.Context, email string) (*domain.User, error)
	List(dbc dbctx.Context, search string, page domain.Page) ([]domain.User, int64, error)
	UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.User, error)
	Delete(dbc dbctx.Context, id uint64) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
}

type CategoryRepository interface {
	Create(dbc dbctx.Context, c *domain.Category) error
	FindAll(dbc dbctx.Context) ([]domain.Category, error)
	FindByID(dbc dbctx.Context, id uint64) (*domain.Category, error)
	FindByName(dbc dbctx.Context, name string) (*domain.Category, error)
	FindBySlug(dbc dbctx.Context, slug string) (*domain.Category, error)
	UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Category, error)
	Delete(dbc dbctx.Context, id uint64) error
	CountActiveProducts(dbc dbctx.Context, id uint64) (int64, error)
	CountChildren(dbc dbctx.Context, id uint64) (int64, error)
}

type ProductRepository interface {
	Create(dbc dbctx.Context, p *domain.Product) error
	FindByID(dbc dbctx.Context, id uint64) (*domain.Product, error)
	// LockByID reads an active product and holds a row lock on it until the
	// surrounding transaction ends.
	LockByID(dbc dbctx.Context, id uint64) (*domain.Product, error)
	List(dbc dbctx.Context, f domain.ProductFilter) ([]domain.Product, int64, error)
	Featured(dbc dbctx.Context, limit int) ([]domain.Product, error)
	// Related lists active products of the category other than excludeID.
	Related(dbc dbctx.Context, categoryID, excludeID uint64, limit int) ([]domain.Product, error)
	UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Product, error)
	Deactivate(dbc dbctx.Context, id uint64) (bool, error)
	// DecrementStock subtracts qty only if stock_quantity >= qty, otherwise
	// it returns ErrStockConflict.
	DecrementStock(dbc dbctx.Context, id uint64, qty int64) error
	CountActive(dbc dbctx.Context) (int64, error)
}

type ReviewRepository interface {
	Create(dbc dbctx.Context, r *domain.Review) error
	FindByProductAndUser(dbc dbctx.Context, productID, userID uint64) (*domain.Review, error)
	// ListByProduct returns reviews newest first with the author's name.
	ListByProduct(dbc dbctx.Context, productID uint64) ([]domain.Review, error)
	Summary(dbc dbctx.Context, productID uint64) (*domain.RatingSummary, error)
}

type CartRepository interface {
	Lines(dbc dbctx.Context, userID uint64) ([]domain.CartLine, error)
	FindLine(dbc dbctx.Context, userID, lineID uint64) (*domain.CartLine, error)
	FindLineByProduct(dbc dbctx.Context, userID, productID uint64) (*domain.CartLine, error)
	Save(dbc dbctx.Context, line *domain.CartLine) error
	DeleteLine(dbc dbctx.Context, userID, lineID uint64) (bool, error)
	Clear(dbc dbctx.Context, userID uint64) error
}

type OrderRepository interface {
	Create(dbc dbctx.Context, order *domain.Order) error
	CreateItems(dbc dbctx.Context, orderID uint64, items []domain.OrderItem) error
	FindByID(dbc dbctx.Context, id uint64) (*domain.Order, error)
	ListByUser(dbc dbctx.Context, userID uint64, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error)
	ListAll(dbc dbctx.Context, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error)
	UpdateStatus(dbc dbctx.Context, id uint64, status domain.OrderStatus) (*domain.Order, error)
	Stats(dbc dbctx.Context) (*domain.OrderStats, error)
}
