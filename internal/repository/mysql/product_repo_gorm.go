package mysql

import (
	"errors"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = map[string]string{
	"created_at":     "products.created_at",
	"price":          "products.price",
	"name":           "products.name",
	"stock_quantity": "products.stock_quantity",
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepository(db *gorm.DB, log *logger.Logger) repository.ProductRepository {
	return &productRepo{db: db, log: log.With("repo", "ProductRepository")}
}

func (r *productRepo) Create(dbc dbctx.Context, p *domain.Product) error {
	p.IsActive = true
	return dbc.DB(r.db).Omit("Category").Create(p).Error
}

func (r *productRepo) FindByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := dbc.DB(r.db).Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) LockByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) List(dbc dbctx.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	base := func() *gorm.DB {
		q := dbc.DB(r.db).Model(&domain.Product{})
		if !f.IncludeInactive {
			q = q.Where("products.is_active = ?", true)
		}
		if f.Category != "" {
			q = q.Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.name = ?", f.Category)
		}
		if f.MinPrice != nil {
			q = q.Where("products.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			q = q.Where("products.price <= ?", *f.MaxPrice)
		}
		if f.Brand != "" {
			q = q.Where("products.brand = ?", f.Brand)
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = productSortColumns["created_at"]
	}
	var out []domain.Product
	err := base().
		Preload("Category").
		Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: true}, Desc: f.Desc}).
		Order("products.id ASC").
		Limit(f.Page.Limit).Offset(f.Page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *productRepo) Featured(dbc dbctx.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := dbc.DB(r.db).
		Preload("Category").
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *productRepo) Related(dbc dbctx.Context, categoryID, excludeID uint64, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := dbc.DB(r.db).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *productRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) > 0 {
		if err := dbc.DB(r.db).Model(&domain.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(dbc, id)
}

func (r *productRepo) Deactivate(dbc dbctx.Context, id uint64) (bool, error) {
	res := dbc.DB(r.db).Model(&domain.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DecrementStock(dbc dbctx.Context, id uint64, qty int64) error {
	res := dbc.DB(r.db).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Warn("guarded stock decrement matched no row", "product_id", id, "qty", qty)
		return repository.ErrStockConflict
	}
	return nil
}

func (r *productRepo) CountActive(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&domain.Product{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
