package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
)

// UserPatch is an admin update of a user account; nil means unchanged.
type UserPatch struct {
	Role       *domain.Role
	IsBlocked  *bool
	IsVerified *bool
}

type UserService struct {
	users repository.UserRepository
	log   *logger.Logger
}

func NewUserService(users repository.UserRepository, log *logger.Logger) *UserService {
	return &UserService{users: users, log: log.With("service", "UserService")}
}

func (s *UserService) List(ctx context.Context, search string, page domain.Page) ([]domain.User, domain.Pagination, error) {
	users, total, err := s.users.List(dbctx.New(ctx), search, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, page.Of(total), nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.users.FindByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint64, patch UserPatch) (*domain.User, error) {
	updates := map[string]interface{}{}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, invalid("role", "must be one of customer, moderator, admin")
		}
		updates["role"] = *patch.Role
	}
	if patch.IsBlocked != nil {
		updates["is_blocked"] = *patch.IsBlocked
	}
	if patch.IsVerified != nil {
		updates["is_verified"] = *patch.IsVerified
	}
	if len(updates) == 0 {
		return nil, invalid("", "no fields to update")
	}

	u, err := s.users.UpdateFields(dbctx.New(ctx), id, updates)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	s.log.Info("user updated by admin", "user_id", id)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return invalid("id", "cannot delete your own account")
	}
	ok, err := s.users.Delete(dbctx.New(ctx), id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	s.log.Info("user deleted", "user_id", id, "actor_id", actorID)
	return nil
}
