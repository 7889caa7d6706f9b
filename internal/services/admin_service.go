package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"golang.org/x/sync/errgroup"
)

const dashboardRecentLimit = 5

type Dashboard struct {
	TotalUsers    int64             `json:"totalUsers"`
	TotalProducts int64             `json:"totalProducts"`
	Orders        domain.OrderStats `json:"orders"`
	RecentOrders  []domain.Order    `json:"recentOrders"`
	RecentUsers   []domain.User     `json:"recentUsers"`
}

type AdminService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	log      *logger.Logger
}

func NewAdminService(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository, log *logger.Logger) *AdminService {
	return &AdminService{
		users:    users,
		products: products,
		orders:   orders,
		log:      log.With("service", "AdminService"),
	}
}

// Dashboard runs the aggregate queries concurrently and fails if any of
// them does.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.New(gctx)
	recent := domain.NewPage(1, dashboardRecentLimit)
	out := &Dashboard{}

	g.Go(func() error {
		n, err := s.users.Count(dbc)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.CountActive(dbc)
		out.TotalProducts = n
		return err
	})
	g.Go(func() error {
		stats, err := s.orders.Stats(dbc)
		if err != nil {
			return err
		}
		out.Orders = *stats
		return nil
	})
	g.Go(func() error {
		orders, _, err := s.orders.ListAll(dbc, "", recent)
		out.RecentOrders = orders
		return err
	})
	g.Go(func() error {
		users, _, err := s.users.List(dbc, "", recent)
		out.RecentUsers = users
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("dashboard aggregation failed", "error", err)
		return nil, err
	}
	return out, nil
}
