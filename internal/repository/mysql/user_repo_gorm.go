package mysql

import (
	"errors"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(dbc dbctx.Context, user *domain.User) error {
	return dbc.DB(r.db).Create(user).Error
}

func (r *userRepo) FindByID(dbc dbctx.Context, id uint64) (*domain.User, error) {
	var u domain.User
	if err := dbc.DB(r.db).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(dbc dbctx.Context, email string) (*domain.User, error) {
	var u domain.User
	err := dbc.DB(r.db).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Limit(1).Find(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) List(dbc dbctx.Context, search string, page domain.Page) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		q := dbc.DB(r.db).Model(&domain.User{})
		if s := strings.TrimSpace(search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.User
	err := base().Order("created_at DESC").Order("id DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) (*domain.User, error) {
	if len(updates) > 0 {
		if err := dbc.DB(r.db).Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(dbc, id)
}

func (r *userRepo) Delete(dbc dbctx.Context, id uint64) (bool, error) {
	res := dbc.DB(r.db).Delete(&domain.User{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&domain.User{}).Count(&n).Error
	return n, err
}
