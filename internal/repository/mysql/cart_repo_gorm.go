package mysql

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Lines(dbc dbctx.Context, userID uint64) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := dbc.DB(r.db).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *cartRepo) FindLine(dbc dbctx.Context, userID, lineID uint64) (*domain.CartLine, error) {
	return r.first(dbc, "id = ? AND user_id = ?", lineID, userID)
}

func (r *cartRepo) FindLineByProduct(dbc dbctx.Context, userID, productID uint64) (*domain.CartLine, error) {
	return r.first(dbc, "user_id = ? AND product_id = ?", userID, productID)
}

func (r *cartRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := dbc.DB(r.db).Where(query, args...).Limit(1).Find(&line).Error; err != nil {
		return nil, err
	}
	if line.ID == 0 {
		return nil, nil
	}
	return &line, nil
}

func (r *cartRepo) Save(dbc dbctx.Context, line *domain.CartLine) error {
	return dbc.DB(r.db).Save(line).Error
}

func (r *cartRepo) DeleteLine(dbc dbctx.Context, userID, lineID uint64) (bool, error) {
	res := dbc.DB(r.db).Where("id = ? AND user_id = ?", lineID, userID).Delete(&domain.CartLine{})
	return res.RowsAffected > 0, res.Error
}

func (r *cartRepo) Clear(dbc dbctx.Context, userID uint64) error {
	return dbc.DB(r.db).Where("user_id = ?", userID).Delete(&domain.CartLine{}).Error
}
