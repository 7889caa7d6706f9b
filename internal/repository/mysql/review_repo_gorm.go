package mysql

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(dbc dbctx.Context, review *domain.Review) error {
	return dbc.DB(r.db).Create(review).Error
}

func (r *reviewRepo) FindByProductAndUser(dbc dbctx.Context, productID, userID uint64) (*domain.Review, error) {
	var review domain.Review
	err := dbc.DB(r.db).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Limit(1).
		Find(&review).Error
	if err != nil {
		return nil, err
	}
	if review.ID == 0 {
		return nil, nil
	}
	return &review, nil
}

func (r *reviewRepo) ListByProduct(dbc dbctx.Context, productID uint64) ([]domain.Review, error) {
	var out []domain.Review
	err := dbc.DB(r.db).
		Model(&domain.Review{}).
		Select("reviews.*, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Find(&out).Error
	return out, err
}

func (r *reviewRepo) Summary(dbc dbctx.Context, productID uint64) (*domain.RatingSummary, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	err := dbc.DB(r.db).
		Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &domain.RatingSummary{
		AvgRating:   decimal.NewFromFloat(row.Avg).Round(1),
		ReviewCount: row.Total,
	}, nil
}
