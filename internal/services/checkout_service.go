package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PlaceOrderInput struct {
	ShippingAddress domain.Address
	PaymentMethod   domain.PaymentMethod
}

type PlacedOrder struct {
	Order   *domain.Order        `json:"order"`
	Summary domain.CostBreakdown `json:"summary"`
}

type CheckoutService struct {
	tx        repository.TxRunner
	carts     repository.CartRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	pricing   domain.PricingPolicy
	publisher rabbit.PublisherInterface
	cache     cache.ProductCache
	log       *logger.Logger

	now            func() time.Time
	newOrderNumber func(time.Time) string
}

func NewCheckoutService(
	tx repository.TxRunner,
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	pricing domain.PricingPolicy,
	pub rabbit.PublisherInterface,
	log *logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		tx:             tx,
		carts:          carts,
		products:       products,
		orders:         orders,
		pricing:        pricing,
		publisher:      pub,
		log:            log.With("service", "CheckoutService"),
		now:            time.Now,
		newOrderNumber: NewOrderNumber,
	}
}

func (s *CheckoutService) SetProductCache(c cache.ProductCache) {
	s.cache = c
}

// NewOrderNumber returns ORD-<yyyymmdd>-<uuid hex>. The orders table also
// carries a unique index on the column.
func NewOrderNumber(at time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), id)
}

// PlaceOrder turns the user's cart into an order. Either the order, its
// items, the stock decrements and the emptied cart are all committed, or
// nothing is.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint64, in PlaceOrderInput) (*PlacedOrder, error) {
	if !in.PaymentMethod.Valid() {
		return nil, invalid("payment_method", "must be one of credit_card, paypal, cash_on_delivery")
	}
	if !in.ShippingAddress.Complete() {
		return nil, invalid("shipping_address", "street, city, postal_code and country are required")
	}

	var placed *PlacedOrder
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		lines, err := s.carts.Lines(dbc, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		items := make([]domain.OrderItem, 0, len(lines))
		priced := make([]domain.PricedLine, 0, len(lines))
		for _, line := range lines {
			p, err := s.products.LockByID(dbc, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.IsActive {
				return &ProductNotFoundError{ProductID: line.ProductID}
			}
			if p.StockQuantity < line.Quantity {
				return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.StockQuantity, Requested: line.Quantity}
			}

			pl := domain.PricedLine{UnitPrice: p.UnitPrice(), Quantity: line.Quantity}
			priced = append(priced, pl)
			items = append(items, domain.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				UnitPrice:   pl.UnitPrice,
				TotalPrice:  pl.Total(),
			})
		}
		summary := s.pricing.Quote(priced)

		for _, it := range items {
			if err := s.products.DecrementStock(dbc, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return s.stockConflict(dbc, it)
				}
				return err
			}
		}

		now := s.now()
		order := &domain.Order{
			UserID:          userID,
			OrderNumber:     s.newOrderNumber(now),
			TotalAmount:     summary.Total,
			ShippingAddress: datatypes.NewJSONType(in.ShippingAddress),
			PaymentMethod:   in.PaymentMethod,
			Status:          domain.StatusPending,
		}
		if err := s.orders.Create(dbc, order); err != nil {
			return err
		}
		if err := s.orders.CreateItems(dbc, order.ID, items); err != nil {
			return err
		}
		if err := s.carts.Clear(dbc, userID); err != nil {
			return err
		}

		order.Items = items
		placed = &PlacedOrder{Order: order, Summary: summary}
		return nil
	})
	if err != nil {
		if IsCheckoutRejection(err) {
			s.log.Info("checkout rejected", "user_id", userID, "reason", err.Error())
			return nil, err
		}
		s.log.Error("checkout failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.log.Info("order placed",
		"user_id", userID,
		"order_id", placed.Order.ID,
		"order_number", placed.Order.OrderNumber,
		"total", placed.Summary.Total.String(),
	)
	s.invalidateProducts(ctx, placed.Order.Items)
	if s.publisher != nil {
		go s.publishOrderPlaced(context.Background(), placed.Order)
	}
	return placed, nil
}

func (s *CheckoutService) stockConflict(dbc dbctx.Context, it domain.OrderItem) error {
	available := int64(0)
	if cur, err := s.products.FindByID(dbc, it.ProductID); err == nil && cur != nil {
		available = cur.StockQuantity
	}
	return &InsufficientStockError{ProductID: it.ProductID, Name: it.ProductName, Available: available, Requested: it.Quantity}
}

func (s *CheckoutService) invalidateProducts(ctx context.Context, items []domain.OrderItem) {
	if s.cache == nil {
		return
	}
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.log.Warn("product cache invalidation failed", "error", err)
	}
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *domain.Order) {
	evt := domain.OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventOrderPlaced, evt); err != nil {
		s.log.Warn("failed to publish order event", "order_id", order.ID, "error", err)
		return
	}
	s.log.Debug("published order event", "order_id", order.ID)
}
