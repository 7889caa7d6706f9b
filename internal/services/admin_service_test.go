package services

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Dashboard(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	users := mysqlrepo.NewUserRepository(db)
	products := mysqlrepo.NewProductRepository(db, log)
	orders := mysqlrepo.NewOrderRepository(db, log)
	checkout := NewCheckoutService(mysqlrepo.NewTxRunner(db), mysqlrepo.NewCartRepository(db), products, orders, domain.DefaultPricing(), nil, log)

	buyer := testutil.SeedUser(t, db, "buyer@example.com", domain.RoleCustomer)
	testutil.SeedUser(t, db, "admin@example.com", domain.RoleAdmin)
	mug := testutil.SeedProduct(t, db, "Mug", "50.00", "0", 5)
	testutil.SeedProduct(t, db, "Lamp", "80.00", "0", 5)
	testutil.SeedCartLine(t, db, buyer.ID, mug.ID, 2)
	_, err := checkout.PlaceOrder(context.Background(), buyer.ID, validInput())
	require.NoError(t, err)

	dash, err := NewAdminService(users, products, orders, log).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dash.TotalUsers)
	assert.Equal(t, int64(2), dash.TotalProducts)
	assert.Equal(t, int64(1), dash.Orders.TotalOrders)
	assert.Equal(t, int64(1), dash.Orders.PendingOrders)
	assert.Equal(t, "610.00", dash.Orders.TotalRevenue.StringFixed(2))
	assert.Len(t, dash.RecentOrders, 1)
	assert.Len(t, dash.RecentUsers, 2)
}

func TestAdminService_DashboardFailsOnAnyQuery(t *testing.T) {
	users := new(mocks.MockUserRepository)
	products := new(mocks.MockProductRepository)
	orders := new(mocks.MockOrderRepository)
	users.On("Count", mock.Anything).Return(int64(3), nil).Maybe()
	users.On("List", mock.Anything, "", mock.Anything).Return([]domain.User{}, int64(0), nil).Maybe()
	products.On("CountActive", mock.Anything).Return(int64(0), errors.New("timeout")).Maybe()
	orders.On("Stats", mock.Anything).Return(&domain.OrderStats{}, nil).Maybe()
	orders.On("ListAll", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Order{}, int64(0), nil).Maybe()

	dash, err := NewAdminService(users, products, orders, nopLogger()).Dashboard(context.Background())

	assert.Nil(t, dash)
	assert.EqualError(t, err, "timeout")
}
