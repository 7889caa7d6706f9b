package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	pricing  domain.PricingPolicy
	log      *logger.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, pricing domain.PricingPolicy, log *logger.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		pricing:  pricing,
		log:      log.With("service", "CartService"),
	}
}

// GetCart joins the user's lines with current product data. Lines whose
// product is gone or inactive are left out of the view and the summary.
func (s *CartService) GetCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	dbc := dbctx.New(ctx)
	lines, err := s.carts.Lines(dbc, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(lines))
	priced := make([]domain.PricedLine, 0, len(lines))
	for _, line := range lines {
		p, err := s.products.FindByID(dbc, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsActive {
			continue
		}
		pl := domain.PricedLine{UnitPrice: p.UnitPrice(), Quantity: line.Quantity}
		priced = append(priced, pl)
		items = append(items, domain.CartItem{
			ID:              line.ID,
			ProductID:       p.ID,
			Name:            p.Name,
			Quantity:        line.Quantity,
			Price:           p.Price,
			DiscountPercent: p.DiscountPercent,
			UnitPrice:       pl.UnitPrice,
			LineTotal:       pl.Total(),
			StockQuantity:   p.StockQuantity,
		})
	}
	return &domain.Cart{Items: items, Summary: s.pricing.Quote(priced)}, nil
}

// AddItem puts qty units of a product in the cart, merging with an existing
// line for the same product. The boolean is true when a new line was created.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint64, qty int64) (*domain.CartLine, bool, error) {
	if qty < 1 {
		return nil, false, invalid("quantity", "must be at least 1")
	}
	dbc := dbctx.New(ctx)
	p, err := s.activeProduct(dbc, productID)
	if err != nil {
		return nil, false, err
	}

	line, err := s.carts.FindLineByProduct(dbc, userID, productID)
	if err != nil {
		return nil, false, err
	}
	created := line == nil
	if created {
		line = &domain.CartLine{UserID: userID, ProductID: productID}
	}
	want := line.Quantity + qty
	if want > p.StockQuantity {
		return nil, false, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.StockQuantity, Requested: want}
	}
	line.Quantity = want
	if err := s.carts.Save(dbc, line); err != nil {
		return nil, false, err
	}
	return line, created, nil
}

// UpdateItem sets the quantity of a line. A quantity below one removes the
// line and returns nil.
func (s *CartService) UpdateItem(ctx context.Context, userID, lineID uint64, qty int64) (*domain.CartLine, error) {
	dbc := dbctx.New(ctx)
	line, err := s.carts.FindLine(dbc, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrCartItemNotFound
	}
	if qty < 1 {
		if _, err := s.carts.DeleteLine(dbc, userID, lineID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	p, err := s.activeProduct(dbc, line.ProductID)
	if err != nil {
		return nil, err
	}
	if qty > p.StockQuantity {
		return nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.StockQuantity, Requested: qty}
	}
	line.Quantity = qty
	if err := s.carts.Save(dbc, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, lineID uint64) error {
	ok, err := s.carts.DeleteLine(dbctx.New(ctx), userID, lineID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint64) error {
	return s.carts.Clear(dbctx.New(ctx), userID)
}

func (s *CartService) activeProduct(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return p, nil
}
