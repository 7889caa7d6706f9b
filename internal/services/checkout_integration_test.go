package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db     *gorm.DB
	orders repository.OrderRepository
	svc    *CheckoutService
}

func newCheckoutFixture(t *testing.T) checkoutFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	orders := mysqlrepo.NewOrderRepository(db, log)
	svc := NewCheckoutService(
		mysqlrepo.NewTxRunner(db),
		mysqlrepo.NewCartRepository(db),
		mysqlrepo.NewProductRepository(db, log),
		orders,
		domain.DefaultPricing(),
		nil,
		log,
	)
	return checkoutFixture{db: db, orders: orders, svc: svc}
}

func (f checkoutFixture) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrder_CommitsEverything(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "buyer@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "50.00", "0", 5)
	lamp := testutil.SeedProduct(t, f.db, "Lamp", "80.00", "0", 3)
	testutil.SeedCartLine(t, f.db, user.ID, mug.ID, 2)
	testutil.SeedCartLine(t, f.db, user.ID, lamp.ID, 1)

	placed, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())
	require.NoError(t, err)

	assert.Equal(t, "180.00", placed.Summary.Subtotal.StringFixed(2))
	assert.Equal(t, "18.00", placed.Summary.Tax.StringFixed(2))
	assert.Equal(t, "500.00", placed.Summary.Shipping.StringFixed(2))
	assert.Equal(t, "698.00", placed.Summary.Total.StringFixed(2))

	assert.Equal(t, int64(3), testutil.Stock(t, f.db, mug.ID))
	assert.Equal(t, int64(2), testutil.Stock(t, f.db, lamp.ID))
	assert.Equal(t, int64(0), testutil.CartSize(t, f.db, user.ID))

	stored, err := f.orders.FindByID(dbctx.New(context.Background()), placed.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, "698.00", stored.TotalAmount.StringFixed(2))

	itemsTotal := decimal.Zero
	for _, it := range stored.Items {
		assert.True(t, it.TotalPrice.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))))
		itemsTotal = itemsTotal.Add(it.TotalPrice)
	}
	assert.True(t, itemsTotal.Add(placed.Summary.Tax).Add(placed.Summary.Shipping).Equal(stored.TotalAmount))
}

func TestPlaceOrder_FreeShippingAndDiscount(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "big@example.com", domain.RoleCustomer)
	tv := testutil.SeedProduct(t, f.db, "TV", "7500.00", "20", 4)
	testutil.SeedCartLine(t, f.db, user.ID, tv.ID, 2)

	placed, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())
	require.NoError(t, err)

	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, "6000.00", placed.Order.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "12000.00", placed.Summary.Subtotal.StringFixed(2))
	assert.Equal(t, "1200.00", placed.Summary.Tax.StringFixed(2))
	assert.True(t, placed.Summary.Shipping.IsZero())
	assert.Equal(t, "13200.00", placed.Summary.Total.StringFixed(2))
}

func TestPlaceOrder_EmptyCartChangesNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "empty@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "5.00", "0", 5)

	_, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, int64(0), f.orderCount(t))
	assert.Equal(t, int64(5), testutil.Stock(t, f.db, mug.ID))
}

func TestPlaceOrder_InsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "short@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "5.00", "0", 5)
	lamp := testutil.SeedProduct(t, f.db, "Lamp", "8.00", "0", 1)
	testutil.SeedCartLine(t, f.db, user.ID, mug.ID, 2)
	testutil.SeedCartLine(t, f.db, user.ID, lamp.ID, 3)

	_, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())

	var stock *InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, lamp.ID, stock.ProductID)
	assert.Equal(t, int64(1), stock.Available)
	assert.Equal(t, int64(3), stock.Requested)

	assert.Equal(t, int64(5), testutil.Stock(t, f.db, mug.ID))
	assert.Equal(t, int64(1), testutil.Stock(t, f.db, lamp.ID))
	assert.Equal(t, int64(2), testutil.CartSize(t, f.db, user.ID))
	assert.Equal(t, int64(0), f.orderCount(t))
}

func TestPlaceOrder_InactiveProductIsNotFound(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "gone@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "5.00", "0", 5)
	testutil.SeedCartLine(t, f.db, user.ID, mug.ID, 1)
	require.NoError(t, f.db.Model(&domain.Product{}).Where("id = ?", mug.ID).Update("is_active", false).Error)

	_, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())

	var nf *ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, mug.ID, nf.ProductID)
	assert.Equal(t, int64(1), testutil.CartSize(t, f.db, user.ID))
}

type failingItemsRepo struct {
	repository.OrderRepository
}

func (failingItemsRepo) CreateItems(dbctx.Context, uint64, []domain.OrderItem) error {
	return errors.New("disk full")
}

func TestPlaceOrder_LateFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	f.svc.orders = failingItemsRepo{OrderRepository: f.orders}
	user := testutil.SeedUser(t, f.db, "rollback@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "5.00", "0", 5)
	testutil.SeedCartLine(t, f.db, user.ID, mug.ID, 2)

	_, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, int64(5), testutil.Stock(t, f.db, mug.ID))
	assert.Equal(t, int64(1), testutil.CartSize(t, f.db, user.ID))
	assert.Equal(t, int64(0), f.orderCount(t))
}

func TestPlaceOrder_LastUnitGoesToExactlyOneBuyer(t *testing.T) {
	f := newCheckoutFixture(t)
	mug := testutil.SeedProduct(t, f.db, "Last Mug", "5.00", "0", 1)
	alice := testutil.SeedUser(t, f.db, "alice@example.com", domain.RoleCustomer)
	bob := testutil.SeedUser(t, f.db, "bob@example.com", domain.RoleCustomer)
	testutil.SeedCartLine(t, f.db, alice.ID, mug.ID, 1)
	testutil.SeedCartLine(t, f.db, bob.ID, mug.ID, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []uint64{alice.ID, bob.ID} {
		wg.Add(1)
		go func(i int, userID uint64) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(context.Background(), userID, validInput())
		}(i, userID)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		var stock *InsufficientStockError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &stock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(0), testutil.Stock(t, f.db, mug.ID))
	assert.Equal(t, int64(1), f.orderCount(t))
}

func TestPlaceOrder_ItemsAreSnapshots(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.SeedUser(t, f.db, "snap@example.com", domain.RoleCustomer)
	mug := testutil.SeedProduct(t, f.db, "Mug", "12.50", "0", 5)
	testutil.SeedCartLine(t, f.db, user.ID, mug.ID, 1)

	placed, err := f.svc.PlaceOrder(context.Background(), user.ID, validInput())
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&domain.Product{}).Where("id = ?", mug.ID).
		Updates(map[string]interface{}{"name": "Renamed Mug", "price": decimal.RequireFromString("99.00")}).Error)

	stored, err := f.orders.FindByID(dbctx.New(context.Background()), placed.Order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Mug", stored.Items[0].ProductName)
	assert.Equal(t, "12.50", stored.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, placed.Order.TotalAmount.StringFixed(2), stored.TotalAmount.StringFixed(2))
}
