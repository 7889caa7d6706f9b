package mocks

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"

	"github.com/stretchr/testify/mock"
)

// TxRunner runs fn directly with no transaction. Tests that need rollback
// semantics use the sqlite-backed repositories instead.
type TxRunner struct{}

func (TxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.New(ctx))
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message any) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) Version(ctx context.Context, id uint64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductCache) Set(ctx context.Context, p *domain.Product, ttl time.Duration, version int64) error {
	args := m.Called(ctx, p, ttl, version)
	return args.Error(0)
}

func (m *MockProductCache) Invalidate(ctx context.Context, ids ...uint64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(dbc dbctx.Context, order *domain.Order) error {
	args := m.Called(dbc, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(dbc dbctx.Context, orderID uint64, items []domain.OrderItem) error {
	args := m.Called(dbc, orderID, items)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(dbc dbctx.Context, id uint64) (*domain.Order, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(dbc dbctx.Context, userID uint64, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error) {
	args := m.Called(dbc, userID, status, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListAll(dbc dbctx.Context, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error) {
	args := m.Called(dbc, status, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(dbc dbctx.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(dbc, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Stats(dbc dbctx.Context) (*domain.OrderStats, error) {
	args := m.Called(dbc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderStats), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(dbc dbctx.Context, p *domain.Product) error {
	args := m.Called(dbc, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) LockByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(dbc dbctx.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	args := m.Called(dbc, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Featured(dbc dbctx.Context, limit int) ([]domain.Product, error) {
	args := m.Called(dbc, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Related(dbc dbctx.Context, categoryID, excludeID uint64, limit int) ([]domain.Product, error) {
	args := m.Called(dbc, categoryID, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Product, error) {
	args := m.Called(dbc, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Deactivate(dbc dbctx.Context, id uint64) (bool, error) {
	args := m.Called(dbc, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(dbc dbctx.Context, id uint64, qty int64) error {
	args := m.Called(dbc, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) CountActive(dbc dbctx.Context) (int64, error) {
	args := m.Called(dbc)
	return args.Get(0).(int64), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Lines(dbc dbctx.Context, userID uint64) ([]domain.CartLine, error) {
	args := m.Called(dbc, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCartRepository) FindLine(dbc dbctx.Context, userID, lineID uint64) (*domain.CartLine, error) {
	args := m.Called(dbc, userID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartLine), args.Error(1)
}

func (m *MockCartRepository) FindLineByProduct(dbc dbctx.Context, userID, productID uint64) (*domain.CartLine, error) {
	args := m.Called(dbc, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartLine), args.Error(1)
}

func (m *MockCartRepository) Save(dbc dbctx.Context, line *domain.CartLine) error {
	args := m.Called(dbc, line)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteLine(dbc dbctx.Context, userID, lineID uint64) (bool, error) {
	args := m.Called(dbc, userID, lineID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Clear(dbc dbctx.Context, userID uint64) error {
	args := m.Called(dbc, userID)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(dbc dbctx.Context, c *domain.Category) error {
	args := m.Called(dbc, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindAll(dbc dbctx.Context) ([]domain.Category, error) {
	args := m.Called(dbc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(dbc dbctx.Context, id uint64) (*domain.Category, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(dbc dbctx.Context, name string) (*domain.Category, error) {
	args := m.Called(dbc, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(dbc dbctx.Context, slug string) (*domain.Category, error) {
	args := m.Called(dbc, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Category, error) {
	args := m.Called(dbc, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(dbc dbctx.Context, id uint64) error {
	args := m.Called(dbc, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountActiveProducts(dbc dbctx.Context, id uint64) (int64, error) {
	args := m.Called(dbc, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountChildren(dbc dbctx.Context, id uint64) (int64, error) {
	args := m.Called(dbc, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(dbc dbctx.Context, user *domain.User) error {
	args := m.Called(dbc, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(dbc dbctx.Context, id uint64) (*domain.User, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(dbc dbctx.Context, email string) (*domain.User, error) {
	args := m.Called(dbc, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(dbc dbctx.Context, search string, page domain.Page) ([]domain.User, int64, error) {
	args := m.Called(dbc, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.User, error) {
	args := m.Called(dbc, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(dbc dbctx.Context, id uint64) (bool, error) {
	args := m.Called(dbc, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(dbc dbctx.Context) (int64, error) {
	args := m.Called(dbc)
	return args.Get(0).(int64), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(dbc dbctx.Context, r *domain.Review) error {
	args := m.Called(dbc, r)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByProductAndUser(dbc dbctx.Context, productID, userID uint64) (*domain.Review, error) {
	args := m.Called(dbc, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProduct(dbc dbctx.Context, productID uint64) ([]domain.Review, error) {
	args := m.Called(dbc, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Summary(dbc dbctx.Context, productID uint64) (*domain.RatingSummary, error) {
	args := m.Called(dbc, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}
