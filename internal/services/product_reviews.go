package services

import (
	"context"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
)

const RelatedLimit = 4

type ReviewInput struct {
	Rating  int
	Comment string
}

// Detail returns an active product with its rating summary, reviews and
// related products. Only the product itself comes from the cache.
func (s *ProductService) Detail(ctx context.Context, id uint64) (*domain.ProductDetail, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.New(ctx)
	summary, err := s.reviews.Summary(dbc, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProduct(dbc, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	related := []domain.Product{}
	if p.CategoryID != nil {
		if related, err = s.products.Related(dbc, *p.CategoryID, id, RelatedLimit); err != nil {
			return nil, err
		}
	}

	return &domain.ProductDetail{
		Product:         p,
		RatingSummary:   *summary,
		Reviews:         reviews,
		RelatedProducts: related,
	}, nil
}

// AddReview records userID's rating of an active product. Each user may
// review a product once.
func (s *ProductService) AddReview(ctx context.Context, userID, productID uint64, in ReviewInput) (*domain.Review, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, invalid("rating", "must be between 1 and 5")
	}

	dbc := dbctx.New(ctx)
	p, err := s.products.FindByID(dbc, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, &ProductNotFoundError{ProductID: productID}
	}

	existing, err := s.reviews.FindByProductAndUser(dbc, productID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(dbc, review); err != nil {
		return nil, err
	}
	s.log.Info("review added", "product_id", productID, "user_id", userID, "rating", in.Rating)
	return review, nil
}
