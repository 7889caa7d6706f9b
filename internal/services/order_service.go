package services

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
)

type OrderService struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface
	log       *logger.Logger
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface, log *logger.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		publisher: pub,
		log:       log.With("service", "OrderService"),
	}
}

// GetOrder returns the order with its items. Only the owner or an admin may
// read it.
func (u *OrderService) GetOrder(ctx context.Context, requester domain.Identity, id uint64) (*domain.Order, error) {
	o, err := u.repo.FindByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if o.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, ErrForbidden
	}
	return o, nil
}

func (u *OrderService) ListUserOrders(ctx context.Context, userID uint64, status domain.OrderStatus, page domain.Page) ([]domain.Order, domain.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Pagination{}, ErrInvalidStatus
	}
	orders, total, err := u.repo.ListByUser(dbctx.New(ctx), userID, status, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orders, page.Of(total), nil
}

func (u *OrderService) ListAllOrders(ctx context.Context, status domain.OrderStatus, page domain.Page) ([]domain.Order, domain.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Pagination{}, ErrInvalidStatus
	}
	orders, total, err := u.repo.ListAll(dbctx.New(ctx), status, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orders, page.Of(total), nil
}

func (u *OrderService) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	o, err := u.repo.UpdateStatus(dbctx.New(ctx), id, status)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	u.log.Info("order status updated", "order_id", id, "status", status)
	if u.publisher != nil {
		go u.publishStatusChanged(context.Background(), o)
	}
	return o, nil
}

func (u *OrderService) publishStatusChanged(ctx context.Context, order *domain.Order) {
	evt := domain.OrderStatusChangedEvent{
		OrderID:   order.ID,
		Status:    order.Status,
		ChangedAt: time.Now().UTC(),
	}
	if err := u.publisher.Publish(ctx, domain.EventOrderStatusChanged, evt); err != nil {
		u.log.Warn("failed to publish status event", "order_id", order.ID, "error", err)
	}
}
