package services

import (
	"context"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"
)

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	ParentID    *uint64
}

type CategoryPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	ParentID    *uint64
	// ClearParent moves the category to the root level.
	ClearParent bool
}

type CategoryService struct {
	repo repository.CategoryRepository
	log  *logger.Logger
}

func NewCategoryService(repo repository.CategoryRepository, log *logger.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log.With("service", "CategoryService")}
}

func (s *CategoryService) Tree(ctx context.Context) ([]*domain.Category, error) {
	flat, err := s.repo.FindAll(dbctx.New(ctx))
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(flat), nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(dbctx.New(ctx))
}

func (s *CategoryService) Get(ctx context.Context, id uint64) (*domain.Category, error) {
	c, err := s.repo.FindByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return nil, invalid("name", "must contain letters or digits")
	}

	dbc := dbctx.New(ctx)
	if err := s.ensureUnique(dbc, name, slug, 0); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.parent(dbc, *in.ParentID); err != nil {
			return nil, err
		}
	}

	c := &domain.Category{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ParentID:    in.ParentID,
	}
	if err := s.repo.Create(dbc, c); err != nil {
		return nil, err
	}
	s.log.Info("category created", "category_id", c.ID, "slug", c.Slug)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint64, patch CategoryPatch) (*domain.Category, error) {
	dbc := dbctx.New(ctx)
	current, err := s.repo.FindByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrCategoryNotFound
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" || domain.Slugify(name) == "" {
			return nil, invalid("name", "must contain letters or digits")
		}
		if name != current.Name {
			slug := domain.Slugify(name)
			if err := s.ensureUnique(dbc, name, slug, id); err != nil {
				return nil, err
			}
			updates["name"] = name
			updates["slug"] = slug
		}
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	switch {
	case patch.ClearParent:
		updates["parent_id"] = nil
	case patch.ParentID != nil:
		if *patch.ParentID == id {
			return nil, invalid("parent_id", "category cannot be its own parent")
		}
		if err := s.ensureNotDescendant(dbc, id, *patch.ParentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = *patch.ParentID
	}

	c, err := s.repo.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Delete refuses while active products or subcategories still point at the
// category.
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	dbc := dbctx.New(ctx)
	c, err := s.repo.FindByID(dbc, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}

	products, err := s.repo.CountActiveProducts(dbc, id)
	if err != nil {
		return err
	}
	children, err := s.repo.CountChildren(dbc, id)
	if err != nil {
		return err
	}
	if products > 0 || children > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(dbc, id); err != nil {
		return err
	}
	s.log.Info("category deleted", "category_id", id)
	return nil
}

// ensureUnique fails when another category already holds the name or the
// slug derived from it. Distinct names can collapse to one slug.
func (s *CategoryService) ensureUnique(dbc dbctx.Context, name, slug string, selfID uint64) error {
	existing, err := s.repo.FindByName(dbc, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrCategoryExists
	}
	existing, err = s.repo.FindBySlug(dbc, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrCategoryExists
	}
	return nil
}

func (s *CategoryService) parent(dbc dbctx.Context, id uint64) (*domain.Category, error) {
	p, err := s.repo.FindByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, invalid("parent_id", "parent category does not exist")
	}
	return p, nil
}

// ensureNotDescendant walks up from the proposed parent and fails if it
// reaches id, which would close a cycle.
func (s *CategoryService) ensureNotDescendant(dbc dbctx.Context, id, parentID uint64) error {
	if _, err := s.parent(dbc, parentID); err != nil {
		return err
	}
	all, err := s.repo.FindAll(dbc)
	if err != nil {
		return err
	}
	parents := make(map[uint64]*uint64, len(all))
	for _, c := range all {
		parents[c.ID] = c.ParentID
	}

	seen := map[uint64]bool{}
	for cur := &parentID; cur != nil && !seen[*cur]; cur = parents[*cur] {
		if *cur == id {
			return invalid("parent_id", "category cannot be nested under its own subcategory")
		}
		seen[*cur] = true
	}
	return nil
}
