package mysql_test

import (
	"context"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProductRepository_DecrementStock(t *testing.T) {
	db := testutil.DB(t)
	repo := mysqlrepo.NewProductRepository(db, testutil.Logger(t))
	p := testutil.SeedProduct(t, db, "Keyboard", "50", "0", 3)
	dbc := dbctx.New(context.Background())

	require.NoError(t, repo.DecrementStock(dbc, p.ID, 2))
	assert.Equal(t, int64(1), testutil.Stock(t, db, p.ID))

	err := repo.DecrementStock(dbc, p.ID, 2)
	assert.ErrorIs(t, err, repository.ErrStockConflict)
	assert.Equal(t, int64(1), testutil.Stock(t, db, p.ID))

	require.NoError(t, repo.DecrementStock(dbc, p.ID, 1))
	assert.Equal(t, int64(0), testutil.Stock(t, db, p.ID))
}

func TestProductRepository_List(t *testing.T) {
	db := testutil.DB(t)
	repo := mysqlrepo.NewProductRepository(db, testutil.Logger(t))
	categories := mysqlrepo.NewCategoryRepository(db)
	dbc := dbctx.New(context.Background())

	laptops := &domain.Category{Name: "Laptops", Slug: "laptops"}
	require.NoError(t, categories.Create(dbc, laptops))

	cheap := testutil.SeedProduct(t, db, "Budget Laptop", "300", "0", 5)
	pricey := testutil.SeedProduct(t, db, "Pro Laptop", "2500", "0", 5)
	mouse := testutil.SeedProduct(t, db, "Wireless Mouse", "25", "0", 50)
	gone := testutil.SeedProduct(t, db, "Old Laptop", "100", "0", 1)
	for _, p := range []*domain.Product{cheap, pricey, gone} {
		require.NoError(t, db.Model(p).Update("category_id", laptops.ID).Error)
	}
	ok, err := repo.Deactivate(dbc, gone.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("category and price band", func(t *testing.T) {
		floor := decimal.NewFromInt(200)
		out, total, err := repo.List(dbc, domain.ProductFilter{Category: "Laptops", MinPrice: &floor, SortBy: "price", Page: domain.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, out, 2)
		assert.Equal(t, cheap.ID, out[0].ID)
		assert.Equal(t, pricey.ID, out[1].ID)
		require.NotNil(t, out[0].Category)
		assert.Equal(t, "Laptops", out[0].Category.Name)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		out, total, err := repo.List(dbc, domain.ProductFilter{Search: "MOUSE", Page: domain.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, out, 1)
		assert.Equal(t, mouse.ID, out[0].ID)
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		out, total, err := repo.List(dbc, domain.ProductFilter{SortBy: "price", Desc: true, Page: domain.NewPage(2, 2)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, out, 1)
		assert.Equal(t, mouse.ID, out[0].ID)
	})

	t.Run("unknown sort column falls back", func(t *testing.T) {
		_, total, err := repo.List(dbc, domain.ProductFilter{SortBy: "price; DROP TABLE products", Page: domain.NewPage(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db := testutil.DB(t)
	repo := mysqlrepo.NewOrderRepository(db, testutil.Logger(t))
	user := testutil.SeedUser(t, db, "buyer@example.com", domain.RoleCustomer)
	dbc := dbctx.New(context.Background())

	order := &domain.Order{
		UserID:          user.ID,
		OrderNumber:     "ORD-TEST-1",
		TotalAmount:     decimal.RequireFromString("49.50"),
		ShippingAddress: datatypes.NewJSONType(domain.Address{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}),
		PaymentMethod:   domain.PaymentPayPal,
		Status:          domain.StatusPending,
	}
	require.NoError(t, repo.Create(dbc, order))
	require.NotZero(t, order.ID)

	items := []domain.OrderItem{
		{ProductID: 1, ProductName: "Cable", Quantity: 3, UnitPrice: decimal.RequireFromString("5.50"), TotalPrice: decimal.RequireFromString("16.50")},
		{ProductID: 2, ProductName: "Hub", Quantity: 1, UnitPrice: decimal.RequireFromString("33"), TotalPrice: decimal.RequireFromString("33")},
	}
	require.NoError(t, repo.CreateItems(dbc, order.ID, items))
	assert.Error(t, repo.CreateItems(dbc, order.ID, nil))

	got, err := repo.FindByID(dbc, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Cable", got.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("16.50").Equal(got.Items[0].TotalPrice))
	assert.Equal(t, "Springfield", got.ShippingAddress.Data().City)

	missing, err := repo.FindByID(dbc, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := repo.UpdateStatus(dbc, order.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)

	stats, err := repo.Stats(dbc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.ShippedOrders)
	assert.True(t, decimal.RequireFromString("49.50").Equal(stats.TotalRevenue))

	list, total, err := repo.ListByUser(dbc, user.ID, domain.StatusPending, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)

	list, total, err = repo.ListAll(dbc, domain.StatusShipped, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	list, total, err = repo.ListAll(dbc, domain.StatusCancelled, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	runner := mysqlrepo.NewTxRunner(db)
	carts := mysqlrepo.NewCartRepository(db)
	user := testutil.SeedUser(t, db, "tx@example.com", domain.RoleCustomer)
	p := testutil.SeedProduct(t, db, "Lamp", "10", "0", 1)

	err := runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		if err := carts.Save(dbc, &domain.CartLine{UserID: user.ID, ProductID: p.ID, Quantity: 1}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(0), testutil.CartSize(t, db, user.ID))
}
