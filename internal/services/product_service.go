package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	FeaturedLimit  = 8
	warmupCacheTTL = 5 * time.Minute
)

var hundred = decimal.NewFromInt(100)

type ProductInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	CategoryID      *uint64
	Brand           string
	StockQuantity   int64
	DiscountPercent decimal.Decimal
	IsFeatured      bool
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description", "is required")
	}
	if !in.Price.IsPositive() {
		return invalid("price", "must be greater than 0")
	}
	if in.StockQuantity < 0 {
		return invalid("stock_quantity", "must not be negative")
	}
	return validateDiscount(in.DiscountPercent)
}

// ProductPatch carries the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	CategoryID      *uint64
	Brand           *string
	StockQuantity   *int64
	DiscountPercent *decimal.Decimal
	IsFeatured      *bool
	IsActive        *bool
}

func (p ProductPatch) updates() (map[string]interface{}, error) {
	u := map[string]interface{}{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, invalid("name", "must not be empty")
		}
		u["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		u["description"] = *p.Description
	}
	if p.Price != nil {
		if !p.Price.IsPositive() {
			return nil, invalid("price", "must be greater than 0")
		}
		u["price"] = *p.Price
	}
	if p.CategoryID != nil {
		u["category_id"] = *p.CategoryID
	}
	if p.Brand != nil {
		u["brand"] = *p.Brand
	}
	if p.StockQuantity != nil {
		if *p.StockQuantity < 0 {
			return nil, invalid("stock_quantity", "must not be negative")
		}
		u["stock_quantity"] = *p.StockQuantity
	}
	if p.DiscountPercent != nil {
		if err := validateDiscount(*p.DiscountPercent); err != nil {
			return nil, err
		}
		u["discount_percent"] = *p.DiscountPercent
	}
	if p.IsFeatured != nil {
		u["is_featured"] = *p.IsFeatured
	}
	if p.IsActive != nil {
		u["is_active"] = *p.IsActive
	}
	return u, nil
}

func validateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return invalid("discount_percent", "must be between 0 and 100")
	}
	return nil
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	reviews    repository.ReviewRepository
	cache      cache.ProductCache
	log        *logger.Logger
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	reviews repository.ReviewRepository,
	log *logger.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		reviews:    reviews,
		log:        log.With("service", "ProductService"),
	}
}

func (s *ProductService) SetProductCache(c cache.ProductCache) {
	s.cache = c
}

func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, domain.Pagination{}, invalid("minPrice", "must not exceed maxPrice")
	}
	list, total, err := s.products.List(dbctx.New(ctx), f)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return list, f.Page.Of(total), nil
}

func (s *ProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.products.Featured(dbctx.New(ctx), FeaturedLimit)
}

// Get returns an active product, reading through the product cache when one
// is configured.
func (s *ProductService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	var (
		fill    bool
		version int64
	)
	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("product cache read failed", "product_id", id, "error", err)
		}
		// The version must be read before the row.
		if version, err = s.cache.Version(ctx, id); err != nil {
			s.log.Warn("product cache version read failed", "product_id", id, "error", err)
		} else {
			fill = true
		}
	}

	p, err := s.products.FindByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, &ProductNotFoundError{ProductID: id}
	}

	if fill {
		s.fillCache(ctx, p, cache.ProductTTL, version)
	}
	return p, nil
}

func (s *ProductService) fillCache(ctx context.Context, p *domain.Product, ttl time.Duration, version int64) {
	err := s.cache.Set(ctx, p, ttl, version)
	switch {
	case errors.Is(err, cache.ErrStaleFill):
		s.log.Debug("skipped stale product cache fill", "product_id", p.ID)
	case err != nil:
		s.log.Warn("product cache write failed", "product_id", p.ID, "error", err)
	}
}

// AdminGet bypasses the cache and also returns inactive products.
func (s *ProductService) AdminGet(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if err := s.ensureCategory(dbc, in.CategoryID); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		Brand:           in.Brand,
		StockQuantity:   in.StockQuantity,
		DiscountPercent: in.DiscountPercent,
		IsFeatured:      in.IsFeatured,
	}
	if err := s.products.Create(dbc, p); err != nil {
		return nil, err
	}
	s.log.Info("product created", "product_id", p.ID)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint64, patch ProductPatch) (*domain.Product, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if err := s.ensureCategory(dbc, patch.CategoryID); err != nil {
		return nil, err
	}
	p, err := s.products.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	s.invalidate(ctx, id)
	return p, nil
}

// Delete deactivates the product. Order items keep referring to it.
func (s *ProductService) Delete(ctx context.Context, id uint64) error {
	ok, err := s.products.Deactivate(dbctx.New(ctx), id)
	if err != nil {
		return err
	}
	if !ok {
		return &ProductNotFoundError{ProductID: id}
	}
	s.invalidate(ctx, id)
	s.log.Info("product deactivated", "product_id", id)
	return nil
}

func (s *ProductService) WarmupProductCache(ctx context.Context, productIDs []uint64) error {
	if s.cache == nil {
		return nil
	}
	dbc := dbctx.New(ctx)
	for _, id := range productIDs {
		version, err := s.cache.Version(ctx, id)
		if err != nil {
			return err
		}
		p, err := s.products.FindByID(dbc, id)
		if err != nil {
			s.log.Warn("failed to warm up cache", "product_id", id, "error", err)
			continue
		}
		if p == nil || !p.IsActive {
			continue
		}
		if err := s.cache.Set(ctx, p, warmupCacheTTL, version); err != nil && !errors.Is(err, cache.ErrStaleFill) {
			return err
		}
	}
	return nil
}

// WarmupFeatured preloads the featured products into the cache.
func (s *ProductService) WarmupFeatured(ctx context.Context) error {
	featured, err := s.Featured(ctx)
	if err != nil {
		return err
	}
	ids := make([]uint64, 0, len(featured))
	for _, p := range featured {
		ids = append(ids, p.ID)
	}
	return s.WarmupProductCache(ctx, ids)
}

func (s *ProductService) ensureCategory(dbc dbctx.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	c, err := s.categories.FindByID(dbc, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("product cache invalidation failed", "product_id", id, "error", err)
	}
}
