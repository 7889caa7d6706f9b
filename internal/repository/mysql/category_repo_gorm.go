package mysql

import (
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(dbc dbctx.Context, c *domain.Category) error {
	return dbc.DB(r.db).Create(c).Error
}

func (r *categoryRepo) FindAll(dbc dbctx.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := dbc.DB(r.db).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *categoryRepo) FindByID(dbc dbctx.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	if err := dbc.DB(r.db).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindByName(dbc dbctx.Context, name string) (*domain.Category, error) {
	var c domain.Category
	if err := dbc.DB(r.db).Where("LOWER(name) = LOWER(?)", name).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) FindBySlug(dbc dbctx.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := dbc.DB(r.db).Where("slug = ?", slug).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Category, error) {
	if len(updates) > 0 {
		if err := dbc.DB(r.db).Model(&domain.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(dbc, id)
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id uint64) error {
	return dbc.DB(r.db).Delete(&domain.Category{}, id).Error
}

func (r *categoryRepo) CountActiveProducts(dbc dbctx.Context, id uint64) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&domain.Product{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&n).Error
	return n, err
}

func (r *categoryRepo) CountChildren(dbc dbctx.Context, id uint64) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&domain.Category{}).Where("parent_id = ?", id).Count(&n).Error
	return n, err
}
