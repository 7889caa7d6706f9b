package mysql

import (
	"errors"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepository(db *gorm.DB, log *logger.Logger) repository.OrderRepository {
	return &orderRepo{db: db, log: log.With("repo", "OrderRepository")}
}

// Create inserts the order header only; items go through CreateItems.
func (r *orderRepo) Create(dbc dbctx.Context, order *domain.Order) error {
	result := dbc.DB(r.db).Omit(clause.Associations).Create(order)
	if result.Error != nil {
		r.log.Error("order insert failed", "error", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		r.log.Warn("order saved but ID is still 0", "rows", result.RowsAffected)
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) CreateItems(dbc dbctx.Context, orderID uint64, items []domain.OrderItem) error {
	if len(items) == 0 {
		return errors.New("order must have at least one item")
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := dbc.DB(r.db).Create(&items).Error; err != nil {
		r.log.Error("order items insert failed", "order_id", orderID, "error", err)
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(dbc dbctx.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := dbc.DB(r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(dbc dbctx.Context, userID uint64, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error) {
	base := func() *gorm.DB {
		q := dbc.DB(r.db).Model(&domain.Order{}).Where("user_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Order
	err := base().
		Preload("Items").
		Order("created_at DESC").Order("id DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *orderRepo) ListAll(dbc dbctx.Context, status domain.OrderStatus, page domain.Page) ([]domain.Order, int64, error) {
	base := func() *gorm.DB {
		q := dbc.DB(r.db).Model(&domain.Order{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Order
	err := base().
		Order("created_at DESC").Order("id DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *orderRepo) UpdateStatus(dbc dbctx.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	res := dbc.DB(r.db).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	return r.FindByID(dbc, id)
}

func (r *orderRepo) Stats(dbc dbctx.Context) (*domain.OrderStats, error) {
	var stats domain.OrderStats
	err := dbc.DB(r.db).Model(&domain.Order{}).Select(`
		COUNT(*) AS total_orders,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_orders,
		COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) AS processing_orders,
		COALESCE(SUM(CASE WHEN status = 'shipped' THEN 1 ELSE 0 END), 0) AS shipped_orders,
		COALESCE(SUM(CASE WHEN status = 'delivered' THEN 1 ELSE 0 END), 0) AS delivered_orders,
		COALESCE(SUM(total_amount), 0) AS total_revenue`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
